package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/example/aurora-storefront/internal/domain"
	"github.com/example/aurora-storefront/internal/usecase"
)

// cartRequest — все варианты имён полей, которые шлют клиенты.
type cartRequest struct {
	ID        string      `mapstructure:"id"`
	ProductID string      `mapstructure:"productId"`
	Color     string      `mapstructure:"color"`
	Size      string      `mapstructure:"size"`
	Quantity  interface{} `mapstructure:"quantity"`
	Qty       interface{} `mapstructure:"qty"`
	Change    interface{} `mapstructure:"change"`
	Delta     interface{} `mapstructure:"delta"`
}

type checkoutRequest struct {
	domain.Buyer `mapstructure:",squash"`
	CardNumber   string `mapstructure:"cardNumber"`
	Expiry       string `mapstructure:"expiry"`
	CVV          string `mapstructure:"cvv"`
}

// cartChange — нормализованный запрос изменения; ChangeOK=false, если delta нет или она не число.
type cartChange struct {
	usecase.CartInput
	Change   int
	ChangeOK bool
}

// readBody — разобрать тело JSON, urlencoded или multipart в map.
// Битое или пустое тело даёт пустую map.
func readBody(r *http.Request, maxMemory int64) map[string]interface{} {
	out := map[string]interface{}{}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(maxMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return out
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	default:
		if r.Body == nil {
			return out
		}
		if err := json.NewDecoder(r.Body).Decode(&out); err != nil || out == nil {
			return map[string]interface{}{}
		}
	}
	return out
}

func decodeWeak(in interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// parseCart — приоритет полей: id над productId, quantity над qty, change над delta.
func parseCart(body map[string]interface{}) cartChange {
	var req cartRequest
	_ = decodeWeak(body, &req)

	in := usecase.CartInput{
		ProductID: strings.TrimSpace(firstString(req.ID, req.ProductID)),
		Color:     req.Color,
		Size:      req.Size,
	}
	if q, ok := parseInt(firstPresent(req.Quantity, req.Qty)); ok {
		in.Quantity = q
	}
	change, ok := parseInt(firstPresent(req.Change, req.Delta))
	return cartChange{CartInput: in, Change: change, ChangeOK: ok}
}

func parseBuyer(body map[string]interface{}) (domain.Buyer, domain.Payment) {
	var req checkoutRequest
	_ = decodeWeak(body, &req)
	return req.Buyer, domain.Payment{CardNumber: req.CardNumber, Expiry: req.Expiry, CVV: req.CVV}
}

// parseSync — строки клиентской корзины из {"cart": [...]}.
func parseSync(body map[string]interface{}) []usecase.CartInput {
	raw, ok := body["cart"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]usecase.CartInput, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, parseCart(m).CartInput)
	}
	return out
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstPresent — первое непустое значение; числовой ноль уступает следующему полю
// и возвращается, только если других значений нет.
func firstPresent(vals ...interface{}) interface{} {
	var zero interface{}
	for _, v := range vals {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(x) == "" {
				continue
			}
		case float64:
			if x == 0 {
				if zero == nil {
					zero = v
				}
				continue
			}
		case int:
			if x == 0 {
				if zero == nil {
					zero = v
				}
				continue
			}
		}
		return v
	}
	return zero
}

// parseInt — целое из числа или десятичной строки; дробная часть отбрасывается,
// значения за пределами ±math.MaxInt32 прижимаются к границе.
func parseInt(v interface{}) (int, bool) {
	var f float64
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(x)
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return clampInt(n), true
		}
		if f, err = cast.ToFloat64E(s); err != nil {
			return 0, false
		}
	default:
		var err error
		if f, err = cast.ToFloat64E(v); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < -math.MaxInt32 {
		return -math.MaxInt32, true
	}
	return int(f), true
}

func clampInt(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < -math.MaxInt32 {
		return -math.MaxInt32
	}
	return int(n)
}
