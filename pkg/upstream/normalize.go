package upstream

import "strings"

// The backing API has shipped several response shapes over time. Every shape
// is reconciled here, once, so the rest of the gateway consumes a single
// stable form.

// ExtractOrderID pulls the created order's identifier out of an
// order-creation response. Priority order: orderId, id, order.id, order as a
// bare string. Returns "" when no shape matches.
func ExtractOrderID(body map[string]any) string {
	if body == nil {
		return ""
	}
	if id := stringField(body, "orderId"); id != "" {
		return id
	}
	if id := stringField(body, "id"); id != "" {
		return id
	}
	switch order := body["order"].(type) {
	case map[string]any:
		if id := stringField(order, "id"); id != "" {
			return id
		}
	case string:
		if trimmed := strings.TrimSpace(order); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ExtractAccessToken pulls the session token out of a login response.
// Priority order: accessToken, token, data.accessToken.
func ExtractAccessToken(body map[string]any) string {
	if body == nil {
		return ""
	}
	if tok := stringField(body, "accessToken"); tok != "" {
		return tok
	}
	if tok := stringField(body, "token"); tok != "" {
		return tok
	}
	if data, ok := body["data"].(map[string]any); ok {
		if tok := stringField(data, "accessToken"); tok != "" {
			return tok
		}
	}
	return ""
}

// ExtractRole pulls the account role out of a login or current-user response.
// Priority order: role, user.role.
func ExtractRole(body map[string]any) string {
	if body == nil {
		return ""
	}
	if role := stringField(body, "role"); role != "" {
		return role
	}
	if user, ok := body["user"].(map[string]any); ok {
		if role := stringField(user, "role"); role != "" {
			return role
		}
	}
	return ""
}

// ExtractUserID pulls the account identifier out of a login or current-user
// response. Priority order: userId, id, user.id.
func ExtractUserID(body map[string]any) string {
	if body == nil {
		return ""
	}
	if id := stringField(body, "userId"); id != "" {
		return id
	}
	if id := stringField(body, "id"); id != "" {
		return id
	}
	if user, ok := body["user"].(map[string]any); ok {
		if id := stringField(user, "id"); id != "" {
			return id
		}
	}
	return ""
}

func stringField(body map[string]any, key string) string {
	if val, ok := body[key].(string); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
