package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rohits-web03/accountabilabuddy/internal/utils"
)

const (
	flowLogin    = "login"
	flowRegister = "register"
)

type statePayload struct {
	Flow string `json:"flow"`
}

// GenerateState builds an OAuth state of the form nonce.payload, where the
// payload records whether the user is logging in or registering.
func GenerateState(flow string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("generating state nonce: %w", err)
	}
	payload, err := json.Marshal(statePayload{Flow: flow})
	if err != nil {
		return "", err
	}
	return nonce + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeState returns the flow carried by state.
func DecodeState(state string) (string, error) {
	_, encoded, ok := strings.Cut(state, ".")
	if !ok || strings.Contains(encoded, ".") {
		return "", errors.New("malformed state")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding state payload: %w", err)
	}
	var p statePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("decoding state payload: %w", err)
	}
	if p.Flow != flowLogin && p.Flow != flowRegister {
		return "", fmt.Errorf("unknown flow %q", p.Flow)
	}
	return p.Flow, nil
}
