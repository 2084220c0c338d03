package upstream

import "testing"

func TestExtractOrderIDPriorityOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"direct orderId", map[string]any{"orderId": "o1", "id": "other"}, "o1"},
		{"fallback id", map[string]any{"id": "o2"}, "o2"},
		{"nested order object", map[string]any{"order": map[string]any{"id": "o3"}}, "o3"},
		{"order as string", map[string]any{"order": " o4 "}, "o4"},
		{"success without id", map[string]any{"success": true}, ""},
		{"nil body", nil, ""},
		{"blank orderId falls through", map[string]any{"orderId": "  ", "id": "o5"}, "o5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractOrderID(tc.body); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractAccessTokenPriorityOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"accessToken wins", map[string]any{"accessToken": "a", "token": "b"}, "a"},
		{"token fallback", map[string]any{"token": "b"}, "b"},
		{"nested data", map[string]any{"data": map[string]any{"accessToken": "c"}}, "c"},
		{"nothing", map[string]any{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractAccessToken(tc.body); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractRoleAndUserID(t *testing.T) {
	t.Parallel()

	body := map[string]any{
		"user": map[string]any{"id": "u1", "role": "fan"},
	}
	if got := ExtractRole(body); got != "fan" {
		t.Fatalf("role: got %q", got)
	}
	if got := ExtractUserID(body); got != "u1" {
		t.Fatalf("user id: got %q", got)
	}

	flat := map[string]any{"role": "artist", "userId": "u2"}
	if got := ExtractRole(flat); got != "artist" {
		t.Fatalf("flat role: got %q", got)
	}
	if got := ExtractUserID(flat); got != "u2" {
		t.Fatalf("flat user id: got %q", got)
	}
}
