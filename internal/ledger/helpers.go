package ledger

import "encoding/json"

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ensureJSON(data json.RawMessage) json.RawMessage {
	if data == nil {
		return json.RawMessage(`{}`)
	}
	return data
}

func mergeMeta(base json.RawMessage, extra map[string]interface{}) json.RawMessage {
	merged := make(map[string]interface{})
	if len(base) > 0 {
		_ = json.Unmarshal(base, &merged)
	}
	for k, v := range extra {
		merged[k] = v
	}
	out, _ := json.Marshal(merged)
	return out
}

// debitSplit divides a debit across two sub-balances, draining primary first.
// The caller has already checked primary+secondary >= amount.
func debitSplit(amount, primary int64) (fromPrimary, fromSecondary int64) {
	fromPrimary = amount
	if fromPrimary > primary {
		fromPrimary = primary
		fromSecondary = amount - fromPrimary
	}
	if fromPrimary < 0 {
		fromPrimary = 0
		fromSecondary = amount
	}
	return fromPrimary, fromSecondary
}
