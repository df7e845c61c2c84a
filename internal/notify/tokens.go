package notify

import (
	"fmt"
	"strings"

	"github.com/restolink/api/internal/enum"
)

// Action-control tokens ride in inline-button callback data as
// "{verb}_{domain}_{id}". The webhook handler parses a click back into a
// domain action with ParseToken; the format is a contract with whatever
// rendered the button and cannot drift.

var (
	tokenVerbs = map[string]bool{
		enum.TokenVerbApprove: true,
		enum.TokenVerbReject:  true,
		enum.TokenVerbReady:   true,
		enum.TokenVerbDelay:   true,
	}
	tokenDomains = map[string]bool{
		enum.TokenDomainOrder:   true,
		enum.TokenDomainPayment: true,
		enum.TokenDomainKitchen: true,
		enum.TokenDomainBar:     true,
	}
)

// BuildToken assembles an action token.
func BuildToken(verb, domain, id string) string {
	return fmt.Sprintf("%s_%s_%s", verb, domain, id)
}

// ParseToken splits a token into verb, domain, and id, validating the verb
// and domain against the known sets. Ids never contain underscores (Mongo
// hex ids, uuids without dashes), so two splits are enough.
func ParseToken(token string) (verb, domain, id string, err error) {
	parts := strings.SplitN(token, "_", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed action token %q", token)
	}
	verb, domain, id = parts[0], parts[1], parts[2]
	if !tokenVerbs[verb] {
		return "", "", "", fmt.Errorf("unknown token verb %q", verb)
	}
	if !tokenDomains[domain] {
		return "", "", "", fmt.Errorf("unknown token domain %q", domain)
	}
	if id == "" {
		return "", "", "", fmt.Errorf("empty id in action token %q", token)
	}
	return verb, domain, id, nil
}
