package oauth

import (
	"fmt"
)

type identityParser func(data map[string]any) (*Identity, error)

// Reads the user data response of every supported provider.
var identityParsers = map[string]identityParser{
	ProviderGithub: func(data map[string]any) (*Identity, error) {
		return readIdentity(data, "name", "email")
	},
	ProviderEntraID: func(data map[string]any) (*Identity, error) {
		return readIdentity(data, "displayName", "mail")
	},
}

func readIdentity(data map[string]any, nameKey string, emailKey string) (*Identity, error) {
	var id string
	switch value := data["id"].(type) {
	case string:
		id = value
	// JSON numbers are decoded as float64
	case float64:
		id = fmt.Sprintf("%.0f", value)
	default:
		return nil, fmt.Errorf("cannot parse user data without an id: %v", data)
	}
	name, _ := data[nameKey].(string)
	email, _ := data[emailKey].(string)
	return &Identity{
		Name:       name,
		Email:      email,
		ProviderID: id,
	}, nil
}
