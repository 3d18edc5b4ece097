package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/domain"
	"github.com/example/aurora-storefront/internal/usecase"
)

// Options — настройки HTTP-адаптера; Catalog, Sessions, Cookies и Checkout.IDs обязательны.
type Options struct {
	Catalog      domain.Catalog
	Sessions     domain.SessionStore
	Cookies      *CookieCodec
	Checkout     usecase.Checkout
	Log          *zap.Logger
	WebDir       string
	Production   bool
	MaxBodyBytes int64
}

type Server struct {
	Router *mux.Router

	sessions domain.SessionStore
	cookies  *CookieCodec
	log      *zap.Logger
	maxBody  int64
	webDir   string
	prod     bool

	ucProducts usecase.ListProducts
	ucGet      usecase.GetCart
	ucAdd      usecase.AddItem
	ucUpdate   usecase.UpdateQuantity
	ucRemove   usecase.RemoveItem
	ucSync     usecase.SyncCart
	ucCheckout usecase.Checkout
	ucOrder    usecase.GetOrder
}

func NewServer(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		Router:     mux.NewRouter(),
		sessions:   opts.Sessions,
		cookies:    opts.Cookies,
		log:        log,
		maxBody:    opts.MaxBodyBytes,
		webDir:     opts.WebDir,
		prod:       opts.Production,
		ucProducts: usecase.ListProducts{Catalog: opts.Catalog},
		ucGet:      usecase.GetCart{Catalog: opts.Catalog},
		ucAdd:      usecase.AddItem{Catalog: opts.Catalog},
		ucSync:     usecase.SyncCart{Catalog: opts.Catalog},
		ucCheckout: opts.Checkout,
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 20
	}

	s.Router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api := s.Router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", s.handleProducts).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.handleCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/add", s.handleAdd).Methods(http.MethodPost)
	api.HandleFunc("/cart/update", s.handleUpdate).Methods(http.MethodPost)
	api.HandleFunc("/cart/remove", s.handleRemove).Methods(http.MethodPost)
	api.HandleFunc("/cart/sync", s.handleSync).Methods(http.MethodPost)
	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	api.HandleFunc("/order/{orderId}", s.handleOrder).Methods(http.MethodGet)

	if s.webDir != "" {
		s.Router.Path("/").HandlerFunc(s.handleHome)
		s.Router.PathPrefix("/").Handler(s.static(http.FileServer(http.Dir(s.webDir))))
	}
	return s
}

// Handler — роутер с middleware: request id, access log, recover, сжатие.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = middleware.Compress(5)(h)
	h = middleware.Recoverer(h)
	h = accessLog(s.log)(h)
	h = middleware.RequestID(h)
	return h
}

type cartPayload struct {
	Success   bool            `json:"success"`
	Cart      interface{}     `json:"cart"`
	Items     interface{}     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CartCount int             `json:"cartCount"`
}

type softPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type checkoutPayload struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ucProducts.Execute())
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	view := s.ucGet.Execute(sess)
	writeJSON(w, http.StatusOK, cartPayload{
		Success:   true,
		Cart:      view.Lines,
		Items:     view.Lines,
		Total:     view.Total,
		CartCount: view.Count,
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	in := parseCart(s.body(w, r))
	res, err := s.ucAdd.Execute(sess, in.CartInput)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Debug("cart add", zap.String("product_id", in.ProductID), zap.Int("cart_count", res.Count))
	writeCart(w, res)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	in := parseCart(s.body(w, r))
	if !in.ChangeOK {
		s.fail(w, r, domain.ErrInvalidQuantity)
		return
	}
	res, err := s.ucUpdate.Execute(sess, in.Key(), in.Change)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeCart(w, res)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	in := parseCart(s.body(w, r))
	writeCart(w, s.ucRemove.Execute(sess, in.Key()))
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	writeCart(w, s.ucSync.Execute(sess, parseSync(s.body(w, r))))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := s.resolve(w, r)
	buyer, pay := parseBuyer(s.body(w, r))
	order, err := s.ucCheckout.Execute(r.Context(), sess, buyer, pay)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("revenue", order.Revenue.StringFixed(2)),
		zap.Int("items", len(order.Items)),
		zap.String("request_id", middleware.GetReqID(r.Context())))
	writeJSON(w, http.StatusOK, checkoutPayload{Success: true, OrderID: order.ID})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["orderId"]
	sess, ok := s.sessions.Lookup(s.cookies.Token(r))
	if !ok {
		s.fail(w, r, domain.ErrOrderNotFound)
		return
	}
	o, err := s.ucOrder.Execute(sess, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.webDir, "homepage.html"))
}

func (s *Server) static(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.prod {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		next.ServeHTTP(w, r)
	})
}

// resolve — найти или создать сессию посетителя и обновить cookie.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) *domain.Session {
	sess, created := s.sessions.Resolve(s.cookies.Token(r))
	if err := s.cookies.Write(w, sess.ID); err != nil {
		s.log.Error("write session cookie", zap.Error(err))
	}
	if created {
		s.log.Debug("session created", zap.String("request_id", middleware.GetReqID(r.Context())))
	}
	return sess
}

func (s *Server) body(w http.ResponseWriter, r *http.Request) map[string]interface{} {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	return readBody(r, s.maxBody)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorPayload{Error: err.Error()})
	case domain.IsSoft(err):
		writeJSON(w, http.StatusOK, softPayload{Success: false, Message: err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "internal error"})
	}
}

func writeCart(w http.ResponseWriter, res usecase.CartResult) {
	writeJSON(w, http.StatusOK, cartPayload{
		Success:   true,
		Cart:      res.Lines,
		Items:     res.Lines,
		Total:     res.Total,
		CartCount: res.Count,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
