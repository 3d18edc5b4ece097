package httpapi

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieCodec — подпись id сессии в cookie посетителя.
type CookieCodec struct {
	Name   string
	Secure bool
	codec  *securecookie.SecureCookie
}

// NewCookieCodec — подписывать cookie ключом hashKey; пустой ключ заменяется случайным.
func NewCookieCodec(name string, hashKey []byte, secure bool) *CookieCodec {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(hashKey, nil)
	// сессии бессрочны, подпись тоже
	sc.MaxAge(0)
	return &CookieCodec{Name: name, Secure: secure, codec: sc}
}

// Token — id сессии из r или "", если cookie нет или подпись неверна.
func (c *CookieCodec) Token(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	var id string
	if err := c.codec.Decode(c.Name, ck.Value, &id); err != nil {
		return ""
	}
	return id
}

func (c *CookieCodec) Write(w http.ResponseWriter, sessionID string) error {
	value, err := c.codec.Encode(c.Name, sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
