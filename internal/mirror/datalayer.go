package mirror

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Имена событий data layer
const (
	EventProductClick = "productClick"
	EventCartAdd      = "scAdd"
	EventCartRemove   = "scRemove"
	EventCartOpen     = "scOpen"
	EventCartUpdate   = "cartUpdate"
	EventPurchase     = "purchase"
)

type CustData struct {
	CustID        string `json:"custId"`
	EmailIDPlain  string `json:"emailID_plain"`
	MobileNoPlain string `json:"mobileNo_plain"`
	LoginStatus   string `json:"loginStatus"`
	LoginMethod   string `json:"loginMethod"`
}

// Guest — единственная личность посетителя, известная витрине.
var Guest = CustData{LoginStatus: "guest"}

type EventInfo struct {
	EventName string `json:"eventName"`
}

type ProductRef struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity,omitempty"`
	Position  int             `json:"position,omitempty"`
}

type OrderSummary struct {
	OrderID  string          `json:"orderId"`
	Revenue  decimal.Decimal `json:"revenue"`
	Currency string          `json:"currency"`
	Items    []SnapshotItem  `json:"items"`
}

// Event — одна запись в data layer.
type Event struct {
	Event     string        `json:"event"`
	CustData  *CustData     `json:"custData,omitempty"`
	EventInfo *EventInfo    `json:"eventInfo,omitempty"`
	Product   []ProductRef  `json:"product,omitempty"`
	Cart      *CartSnapshot `json:"cart,omitempty"`
	Order     *OrderSummary `json:"order,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// DataLayer — журнал событий только на добавление.
type DataLayer struct {
	mu     sync.RWMutex
	events []Event
}

func NewDataLayer() *DataLayer {
	return &DataLayer{}
}

func (d *DataLayer) Push(e Event) {
	d.mu.Lock()
	d.events = append(d.events, e)
	d.mu.Unlock()
}

func (d *DataLayer) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.events)
}

// LastPush — последнее событие; false, если журнал пуст.
func (d *DataLayer) LastPush() (Event, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.events) == 0 {
		return Event{}, false
	}
	return d.events[len(d.events)-1], true
}

// Get — значение по пути вида "cart.totalQuantity" в JSON-форме последнего события.
// Элементы массивов адресуются индексом ("product.0.productId").
func (d *DataLayer) Get(path string) (interface{}, bool) {
	last, ok := d.LastPush()
	if !ok {
		return nil, false
	}
	raw, err := json.Marshal(last)
	if err != nil {
		return nil, false
	}
	var cur interface{}
	if err := json.Unmarshal(raw, &cur); err != nil {
		return nil, false
	}
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := parseIndex(key)
			if err != nil || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func (d *DataLayer) All() []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Event(nil), d.events...)
}

func (d *DataLayer) ByEvent(name string) []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Event
	for _, e := range d.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// Cart — снимок корзины из последнего события, где он был.
func (d *DataLayer) Cart() (CartSnapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := len(d.events) - 1; i >= 0; i-- {
		if d.events[i].Cart != nil {
			return *d.events[i].Cart, true
		}
	}
	return CartSnapshot{}, false
}

// Order — заказ из последнего события, где он был.
func (d *DataLayer) Order() (OrderSummary, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := len(d.events) - 1; i >= 0; i-- {
		if d.events[i].Order != nil {
			return *d.events[i].Order, true
		}
	}
	return OrderSummary{}, false
}
