package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLowStockThreshold applies to products that do not configure
// their own threshold.
const DefaultLowStockThreshold = 5

type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	Quantity          float64   `json:"quantity"`
	Category          string    `json:"category"`
	Barcode           string    `json:"barcode,omitempty"`
	Currency          string    `json:"currency,omitempty"`
	LowStockThreshold float64   `json:"low_stock_threshold,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product requires id and name")
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("product %s: negative price", p.ID)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("product %s: negative quantity", p.ID)
	}
	return nil
}

// EffectiveLowStockThreshold returns the per-product threshold, falling
// back to the system default when unset.
func (p Product) EffectiveLowStockThreshold() float64 {
	if p.LowStockThreshold > 0 {
		return p.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

type ProductCreateRequest struct {
	Name              string  `json:"name"`
	PriceCents        int64   `json:"price_cents"`
	Quantity          float64 `json:"quantity"`
	Category          string  `json:"category"`
	Barcode           string  `json:"barcode,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	LowStockThreshold float64 `json:"low_stock_threshold,omitempty"`
}

type ProductUpdateRequest struct {
	Name              *string  `json:"name,omitempty"`
	PriceCents        *int64   `json:"price_cents,omitempty"`
	Quantity          *float64 `json:"quantity,omitempty"`
	Category          *string  `json:"category,omitempty"`
	Barcode           *string  `json:"barcode,omitempty"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty"`
}

// CartLine lives only in session memory; it is embedded into a Bill at
// commit time and never persisted on its own.
type CartLine struct {
	ProductID          string  `json:"product_id"`
	Name               string  `json:"name"`
	PriceCents         int64   `json:"price_cents"`
	OriginalPriceCents int64   `json:"original_price_cents"`
	Quantity           float64 `json:"quantity"`
}

const (
	DiscountTypeAmount     = "amount"
	DiscountTypePercentage = "percentage"
)

// Discount is the raw operator input: a flat cent amount or a percentage
// of the subtotal, depending on Type.
type Discount struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CashierRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodQRIS = "qris"
)

type Payment struct {
	Method          string `json:"method"`
	AmountPaidCents int64  `json:"amount_paid_cents,omitempty"`
	ChangeCents     int64  `json:"change_cents,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

// Bill is immutable once created; the only mutation path is an explicit
// admin hard delete.
type Bill struct {
	ID            string       `json:"id"`
	BillNumber    string       `json:"bill_number"`
	ShopID        string       `json:"shop_id,omitempty"`
	Items         []CartLine   `json:"items"`
	SubtotalCents int64        `json:"subtotal_cents"`
	Discount      Discount     `json:"discount"`
	DiscountCents int64        `json:"discount_cents"`
	TotalCents    int64        `json:"total_cents"`
	Customer      *CustomerRef `json:"customer,omitempty"`
	Payment       Payment      `json:"payment"`
	Cashier       CashierRef   `json:"cashier"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.ID) == "" || strings.TrimSpace(b.BillNumber) == "" {
		return fmt.Errorf("bill requires id and bill number")
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("bill %s: no line items", b.BillNumber)
	}
	if b.TotalCents < 0 || b.TotalCents != b.SubtotalCents-b.DiscountCents {
		return fmt.Errorf("bill %s: total does not equal subtotal minus discount", b.BillNumber)
	}
	return nil
}

type Customer struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone,omitempty"`
	Email               string     `json:"email,omitempty"`
	Address             string     `json:"address,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	TotalPurchasesCents int64      `json:"total_purchases_cents"`
	LastVisit           *time.Time `json:"last_visit,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer requires id and name")
	}
	return nil
}

type CustomerCreateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type CustomerUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("supplier requires id and name")
	}
	return nil
}

type SupplierCreateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type GRNItem struct {
	ProductID  string  `json:"product_id,omitempty"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	PriceCents int64   `json:"price_cents"`
}

const GRNStatusReceived = "received"

// GRN records inbound stock from a supplier. Append-only.
type GRN struct {
	ID              string    `json:"id"`
	GRNNumber       string    `json:"grn_number"`
	Supplier        string    `json:"supplier"`
	Items           []GRNItem `json:"items"`
	TotalValueCents int64     `json:"total_value_cents"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (g GRN) Validate() error {
	if strings.TrimSpace(g.ID) == "" || strings.TrimSpace(g.GRNNumber) == "" {
		return fmt.Errorf("grn requires id and grn number")
	}
	if len(g.Items) == 0 {
		return fmt.Errorf("grn %s: no items", g.GRNNumber)
	}
	return nil
}

type GRNCreateRequest struct {
	Supplier string    `json:"supplier"`
	Items    []GRNItem `json:"items"`
}

const (
	ReturnStatusPending  = "pending"
	ReturnStatusApproved = "approved"
	ReturnStatusRejected = "rejected"
)

type ReturnItem struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	PriceCents int64   `json:"price_cents"`
}

type Return struct {
	ID                  string       `json:"id"`
	ReturnNumber        string       `json:"return_number"`
	BillID              string       `json:"bill_id,omitempty"`
	Items               []ReturnItem `json:"items"`
	TotalValueCents     int64        `json:"total_value_cents"`
	Status              string       `json:"status"`
	CashierName         string       `json:"cashier_name"`
	ApprovedCashierName string       `json:"approved_cashier_name,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	ApprovedAt          *time.Time   `json:"approved_at,omitempty"`
	RejectedAt          *time.Time   `json:"rejected_at,omitempty"`
}

func (r Return) Validate() error {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.ReturnNumber) == "" {
		return fmt.Errorf("return requires id and return number")
	}
	switch r.Status {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected:
	default:
		return fmt.Errorf("return %s: unknown status %q", r.ReturnNumber, r.Status)
	}
	return nil
}

type ReturnCreateRequest struct {
	BillID string       `json:"bill_id,omitempty"`
	Items  []ReturnItem `json:"items"`
}

type ShopSettings struct {
	CurrencyCode      string  `json:"currency_code,omitempty"`
	LowStockThreshold float64 `json:"low_stock_threshold,omitempty"`
}

// Shop scopes collections for multi-shop aggregation. There is no
// cross-shop referential integrity; dangling shop ids on bills are
// excluded from aggregates rather than treated as errors.
type Shop struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Address   string       `json:"address,omitempty"`
	Settings  ShopSettings `json:"settings"`
	CreatedAt time.Time    `json:"created_at"`
}

func (s Shop) Validate() error {
	if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("shop requires id and name")
	}
	return nil
}

type ShopCreateRequest struct {
	Name     string       `json:"name"`
	Address  string       `json:"address,omitempty"`
	Settings ShopSettings `json:"settings"`
}

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("user requires id and username")
	}
	if u.Role != RoleAdmin && u.Role != RoleCashier {
		return fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
	}
	return nil
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

const (
	NotificationLowStock   = "low_stock"
	NotificationOutOfStock = "out_of_stock"
	NotificationGeneral    = "general"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ProductID string    `json:"product_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" || strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("notification requires id and message")
	}
	return nil
}

// Session identifies the authenticated operator for the current request.
// It replaces the source system's always-admin stub: every privileged
// operation checks the real role carried here.
type Session struct {
	UserID   string
	Username string
	Name     string
	Email    string
	Role     string
}

func (s Session) IsAdmin() bool           { return s.Role == RoleAdmin }
func (s Session) CanManageUsers() bool    { return s.Role == RoleAdmin }
func (s Session) CanDeleteBills() bool    { return s.Role == RoleAdmin }
func (s Session) CanApproveReturns() bool { return s.Role == RoleAdmin }

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

// AddToCartRequest targets one terminal's in-memory cart.
type AddToCartRequest struct {
	TerminalID       string  `json:"terminal_id"`
	ProductID        string  `json:"product_id"`
	Quantity         float64 `json:"quantity"`
	CustomPriceCents *int64  `json:"custom_price_cents,omitempty"`
}

type UpdateCartItemRequest struct {
	TerminalID string   `json:"terminal_id"`
	ProductID  string   `json:"product_id"`
	Quantity   *float64 `json:"quantity,omitempty"`
	PriceCents *int64   `json:"price_cents,omitempty"`
}

type CartView struct {
	TerminalID    string     `json:"terminal_id"`
	Lines         []CartLine `json:"lines"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

type CheckoutRequest struct {
	TerminalID string   `json:"terminal_id"`
	ShopID     string   `json:"shop_id,omitempty"`
	CustomerID string   `json:"customer_id,omitempty"`
	Discount   Discount `json:"discount"`
	Payment    Payment  `json:"payment"`
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	Bill    *Bill  `json:"bill,omitempty"`
	Error   string `json:"error,omitempty"`
}
