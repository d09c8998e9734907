package token

import (
	"strings"
	"sync"
)

var (
	dynamicMu sync.RWMutex

	// nextTokenID tracks the next available dynamic token ID.
	// Dynamic tokens start after maxBuiltin (999).
	nextTokenID = maxBuiltin

	// dynamicTokens maps registered dynamic tokens to their names.
	dynamicTokens = make(map[TokenType]string)

	// dynamicKeywords maps lowercase keyword names to their token types.
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a new dynamic keyword with the given name and returns
// its token type. Registering the same name again returns the same type.
// Dialects call this for keywords the base grammar does not know, like
// DELIMITER or PROCEDURE. Dynamic keywords are never reserved.
func Register(name string) TokenType {
	key := strings.ToLower(name)

	dynamicMu.Lock()
	defer dynamicMu.Unlock()

	if t, ok := dynamicKeywords[key]; ok {
		return t
	}
	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = strings.ToUpper(name)
	dynamicKeywords[key] = t
	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	if tok, ok := dynamicKeywords[strings.ToLower(name)]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
