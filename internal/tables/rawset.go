package tables

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
	"github.com/jekabolt/grbpwr-dashboard/internal/entity"
	"github.com/shopspring/decimal"
)

var timestampLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// RawTableSet is the validated, typed, read-only snapshot of the source
// tables. Nothing mutates it after NewRawTableSet returns, so any number of
// goroutines may read it concurrently.
type RawTableSet struct {
	ID       string
	LoadedAt time.Time

	Orders     []entity.Order
	OrderItems []entity.OrderItem
	Products   []entity.Product
	Customers  []entity.Customer
	Reviews    []entity.Review

	orderByID    map[string]int
	productByID  map[string]int
	customerByID map[string]int
	// reviewByOrder holds the single review kept per order.
	reviewByOrder map[string]int
}

// NewRawTableSet validates the schema of every table in raw and decodes it.
// A missing table or required column yields a *gerr.SchemaError; an
// unparseable cell yields an error wrapping gerr.ErrMalformedValue.
func NewRawTableSet(raw Raw) (*RawTableSet, error) {
	for _, name := range Names() {
		t, ok := raw[name]
		if !ok || t == nil {
			return nil, &gerr.SchemaError{Table: name}
		}
		if err := t.Require(requiredColumns[name]...); err != nil {
			return nil, err
		}
	}

	rs := &RawTableSet{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
	}
	var err error
	if rs.Orders, err = decodeOrders(raw[Orders]); err != nil {
		return nil, err
	}
	if rs.OrderItems, err = decodeOrderItems(raw[OrderItems]); err != nil {
		return nil, err
	}
	if rs.Products, err = decodeProducts(raw[Products]); err != nil {
		return nil, err
	}
	if rs.Customers, err = decodeCustomers(raw[Customers]); err != nil {
		return nil, err
	}
	if rs.Reviews, err = decodeReviews(raw[Reviews]); err != nil {
		return nil, err
	}
	rs.index()
	return rs, nil
}

func (rs *RawTableSet) index() {
	rs.orderByID = make(map[string]int, len(rs.Orders))
	for i, o := range rs.Orders {
		if _, ok := rs.orderByID[o.OrderID]; !ok {
			rs.orderByID[o.OrderID] = i
		}
	}
	rs.productByID = make(map[string]int, len(rs.Products))
	for i, p := range rs.Products {
		if _, ok := rs.productByID[p.ProductID]; !ok {
			rs.productByID[p.ProductID] = i
		}
	}
	rs.customerByID = make(map[string]int, len(rs.Customers))
	for i, c := range rs.Customers {
		if _, ok := rs.customerByID[c.CustomerID]; !ok {
			rs.customerByID[c.CustomerID] = i
		}
	}
	rs.reviewByOrder = make(map[string]int, len(rs.Reviews))
	for i := range rs.Reviews {
		r := &rs.Reviews[i]
		kept, ok := rs.reviewByOrder[r.OrderID]
		if !ok || r.NewerThan(&rs.Reviews[kept]) {
			rs.reviewByOrder[r.OrderID] = i
		}
	}
}

// Order returns the order with the given id.
func (rs *RawTableSet) Order(id string) (*entity.Order, bool) {
	i, ok := rs.orderByID[id]
	if !ok {
		return nil, false
	}
	return &rs.Orders[i], true
}

// Product returns the product with the given id.
func (rs *RawTableSet) Product(id string) (*entity.Product, bool) {
	i, ok := rs.productByID[id]
	if !ok {
		return nil, false
	}
	return &rs.Products[i], true
}

// Customer returns the customer with the given id.
func (rs *RawTableSet) Customer(id string) (*entity.Customer, bool) {
	i, ok := rs.customerByID[id]
	if !ok {
		return nil, false
	}
	return &rs.Customers[i], true
}

// ReviewForOrder returns the single review kept for an order: the most
// recently created one, or the first encountered when dates tie or are
// missing.
func (rs *RawTableSet) ReviewForOrder(orderID string) (*entity.Review, bool) {
	i, ok := rs.reviewByOrder[orderID]
	if !ok {
		return nil, false
	}
	return &rs.Reviews[i], true
}

// DateRange returns the earliest and latest purchase dates across all
// orders. ok is false when there are no orders.
func (rs *RawTableSet) DateRange() (w entity.DateWindow, ok bool) {
	if len(rs.Orders) == 0 {
		return entity.DateWindow{}, false
	}
	first, last := rs.Orders[0].PurchaseTimestamp, rs.Orders[0].PurchaseTimestamp
	for _, o := range rs.Orders[1:] {
		if o.PurchaseTimestamp.Before(first) {
			first = o.PurchaseTimestamp
		}
		if o.PurchaseTimestamp.After(last) {
			last = o.PurchaseTimestamp
		}
	}
	return entity.NewDateWindow(first, last), true
}

func decodeOrders(t *Table) ([]entity.Order, error) {
	orders := make([]entity.Order, 0, t.Len())
	for i := range t.Rows {
		purchased, err := parseTimestamp(t, i, ColPurchaseTimestamp)
		if err != nil {
			return nil, err
		}
		if purchased == nil {
			return nil, gerr.MalformedValue(t.Name, i, ColPurchaseTimestamp, "", errRequired)
		}
		delivered, err := parseTimestamp(t, i, ColDeliveredDate)
		if err != nil {
			return nil, err
		}
		orders = append(orders, entity.Order{
			OrderID:            cell(t, i, ColOrderID),
			CustomerID:         cell(t, i, ColCustomerID),
			PurchaseTimestamp:  *purchased,
			Status:             entity.OrderStatus(strings.ToLower(cell(t, i, ColOrderStatus))),
			DeliveredTimestamp: delivered,
		})
	}
	return orders, nil
}

func decodeOrderItems(t *Table) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0, t.Len())
	for i := range t.Rows {
		price, err := parseDecimal(t, i, ColPrice)
		if err != nil {
			return nil, err
		}
		if price.IsNegative() {
			return nil, gerr.MalformedValue(t.Name, i, ColPrice, cell(t, i, ColPrice), errNegative)
		}
		freight, err := parseDecimal(t, i, ColFreightValue)
		if err != nil {
			return nil, err
		}
		itemID, err := parseInt(t, i, ColOrderItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.OrderItem{
			OrderID:      cell(t, i, ColOrderID),
			OrderItemID:  itemID,
			ProductID:    cell(t, i, ColProductID),
			Price:        price,
			FreightValue: freight,
		})
	}
	return items, nil
}

func decodeProducts(t *Table) ([]entity.Product, error) {
	products := make([]entity.Product, 0, t.Len())
	for i := range t.Rows {
		products = append(products, entity.Product{
			ProductID:    cell(t, i, ColProductID),
			CategoryName: nullable(t, i, ColCategoryName),
		})
	}
	return products, nil
}

func decodeCustomers(t *Table) ([]entity.Customer, error) {
	customers := make([]entity.Customer, 0, t.Len())
	for i := range t.Rows {
		customers = append(customers, entity.Customer{
			CustomerID: cell(t, i, ColCustomerID),
			State:      nullable(t, i, ColCustomerState),
			City:       nullable(t, i, ColCustomerCity),
		})
	}
	return customers, nil
}

func decodeReviews(t *Table) ([]entity.Review, error) {
	reviews := make([]entity.Review, 0, t.Len())
	for i := range t.Rows {
		score, err := parseScore(t, i)
		if err != nil {
			return nil, err
		}
		created, err := parseTimestamp(t, i, ColReviewCreatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, entity.Review{
			ReviewID:  cell(t, i, ColReviewID),
			OrderID:   cell(t, i, ColOrderID),
			Score:     score,
			CreatedAt: created,
		})
	}
	return reviews, nil
}

func cell(t *Table, i int, column string) string {
	return strings.TrimSpace(t.Value(i, column))
}

func nullable(t *Table, i int, column string) *string {
	v := cell(t, i, column)
	if v == "" {
		return nil
	}
	return &v
}

func parseTimestamp(t *Table, i int, column string) (*time.Time, error) {
	v := cell(t, i, column)
	if v == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, v)
		if err == nil {
			return &ts, nil
		}
		lastErr = err
	}
	return nil, gerr.MalformedValue(t.Name, i, column, v, lastErr)
}

func parseDecimal(t *Table, i int, column string) (decimal.Decimal, error) {
	v := cell(t, i, column)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, gerr.MalformedValue(t.Name, i, column, v, err)
	}
	return d, nil
}

func parseInt(t *Table, i int, column string) (int, error) {
	v := cell(t, i, column)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, gerr.MalformedValue(t.Name, i, column, v, err)
	}
	return n, nil
}

// parseScore accepts integral scores written as "4" or "4.0" in 1..5.
func parseScore(t *Table, i int) (*int, error) {
	v := cell(t, i, ColReviewScore)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, gerr.MalformedValue(t.Name, i, ColReviewScore, v, err)
	}
	score := int(f)
	if float64(score) != f || score < 1 || score > 5 {
		return nil, gerr.MalformedValue(t.Name, i, ColReviewScore, v, errScoreRange)
	}
	return &score, nil
}
