package messages

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Render substitutes {institution} in the title and body.
func (m MessageText) Render(institution string) MessageText {
	if institution == "" {
		institution = "your bank"
	}
	r := strings.NewReplacer("{institution}", institution)
	return MessageText{Title: r.Replace(m.Title), Body: r.Replace(m.Body)}
}

// Messages holds the push notification texts for items that need attention.
type Messages struct {
	ItemLoginRequired     MessageText `json:"item_login_required"`
	ItemPendingExpiration MessageText `json:"item_pending_expiration"`
	ItemPermissionRevoked MessageText `json:"item_permission_revoked"`
}

// Defaults returns the built-in English texts.
func Defaults() Messages {
	return Messages{
		ItemLoginRequired: MessageText{
			Title: "Reconnect {institution}",
			Body:  "Your connection to {institution} needs you to sign in again.",
		},
		ItemPendingExpiration: MessageText{
			Title: "{institution} access expiring",
			Body:  "Your connection to {institution} expires soon. Reconnect to keep syncing.",
		},
		ItemPermissionRevoked: MessageText{
			Title: "{institution} disconnected",
			Body:  "Access to {institution} was revoked. Link it again to resume syncing.",
		},
	}
}

// Load reads the notifications JSON file. An empty path yields Defaults, and
// texts missing from the file keep their default.
func Load(path string) (*Messages, error) {
	msgs := Defaults()
	if path == "" {
		return &msgs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	var fromFile Messages
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}

	merge(&msgs.ItemLoginRequired, fromFile.ItemLoginRequired)
	merge(&msgs.ItemPendingExpiration, fromFile.ItemPendingExpiration)
	merge(&msgs.ItemPermissionRevoked, fromFile.ItemPermissionRevoked)
	return &msgs, nil
}

func merge(dst *MessageText, src MessageText) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Body != "" {
		dst.Body = src.Body
	}
}
