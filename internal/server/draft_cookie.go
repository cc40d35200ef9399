package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"unicode/utf8"

	"aimploy/internal/apply"
	"aimploy/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

// Free text kept in the draft cookie is clipped so the encoded cookie stays
// under the browser size limit. The full answer is only needed for the
// request that submits it.
const (
	maxCookieTextBytes  = 500
	maxCookieErrorBytes = 120
)

func newDraftCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := cookieKey("COOKIE_HASH_KEY", config.CookieHashKey, 64, logger)
	if err != nil {
		return nil, err
	}

	blockKey, err := cookieKey("COOKIE_BLOCK_KEY", config.CookieBlockKey, 32, logger)
	if err != nil {
		return nil, err
	}

	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("COOKIE_BLOCK_KEY must decode to 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.SetSerializer(securecookie.JSONEncoder{})
	cookie.MaxAge(config.DraftMaxAgeSec)

	return cookie, nil
}

// cookieKey decodes a base64 key from config, generating a random one when
// it is unset. Random keys invalidate drafts on every restart.
func cookieKey(name, encoded string, size int, logger *logrus.Logger) ([]byte, error) {
	if encoded == "" {
		logger.WithField("key", name).Warn("cookie key not configured, generating a random one")
		return securecookie.GenerateRandomKey(size), nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return key, nil
}

// loadState restores the wizard state from the draft cookie. A missing,
// expired or tampered cookie yields a fresh state.
func (s *Service) loadState(r *http.Request) apply.State {
	c, err := r.Cookie(s.config.DraftCookieName)
	if err != nil {
		return apply.NewState()
	}

	var state apply.State
	if err := s.cookie.Decode(s.config.DraftCookieName, c.Value, &state); err != nil {
		s.requestLogger(r).WithError(err).Info("discarding unreadable draft cookie")
		return apply.NewState()
	}

	return state
}

func (s *Service) saveState(w http.ResponseWriter, state apply.State) error {
	state = cookieState(state)
	encoded, err := s.cookie.Encode(s.config.DraftCookieName, state)
	if err != nil {
		// still too long: keep the progress and files, drop the free text
		state.Draft.Behavioral.TextAnswer = ""
		if state.Receipt != nil {
			state.Receipt.BehavioralAnswer = ""
		}
		encoded, err = s.cookie.Encode(s.config.DraftCookieName, state)
		if err != nil {
			return fmt.Errorf("failed to encode draft cookie: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.DraftCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   s.config.DraftMaxAgeSec,
	})

	return nil
}

func (s *Service) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.DraftCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func cookieState(state apply.State) apply.State {
	state.Draft.Behavioral.TextAnswer = clip(state.Draft.Behavioral.TextAnswer, maxCookieTextBytes)
	state.Draft.Resume.Error = clip(state.Draft.Resume.Error, maxCookieErrorBytes)
	state.Draft.Behavioral.Audio.Error = clip(state.Draft.Behavioral.Audio.Error, maxCookieErrorBytes)
	state.Draft.Behavioral.Video.Error = clip(state.Draft.Behavioral.Video.Error, maxCookieErrorBytes)
	if state.Receipt != nil {
		receipt := *state.Receipt
		receipt.BehavioralAnswer = clip(receipt.BehavioralAnswer, maxCookieTextBytes)
		state.Receipt = &receipt
	}
	return state
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
