package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lapakpos/backend/internal/billing"
	"lapakpos/backend/internal/cache"
	"lapakpos/backend/internal/cart"
	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/export"
	"lapakpos/backend/internal/kvstore"
	"lapakpos/backend/internal/ledger"
	"lapakpos/backend/internal/report"
)

type sessionContextKey struct{}

func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(domain.Session)
	return session, ok
}

// Service orchestrates the ledgers, carts and billing pipeline. Every
// privileged operation resolves the caller's role from the request
// context; there is no implicit admin.
type Service struct {
	kv             kvstore.Store
	carts          *cart.Engine
	users          *ledger.UserLedger
	shops          *ledger.ShopLedger
	reports        cache.ReportCache
	reportTTL      time.Duration
	defaultShopID  string
	reportLocation *time.Location

	mu         sync.Mutex
	shopSets   map[string]*ledger.Set
	processors map[string]*billing.Processor
}

func New(kv kvstore.Store, reports cache.ReportCache, defaultShopID string, reportTTL time.Duration) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	return &Service{
		kv:             kv,
		carts:          cart.NewEngine(),
		users:          ledger.NewUserLedger(kv),
		shops:          ledger.NewShopLedger(kv),
		reports:        reports,
		reportTTL:      reportTTL,
		defaultShopID:  defaultShopID,
		reportLocation: time.Local,
		shopSets:       make(map[string]*ledger.Set),
		processors:     make(map[string]*billing.Processor),
	}
}

// ledgersFor resolves one shop's ledger set, creating it on first use.
// The empty shop id maps to the configured default shop.
func (s *Service) ledgersFor(shopID string) *ledger.Set {
	if shopID == "" {
		shopID = s.defaultShopID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.shopSets[shopID]
	if !ok {
		set = ledger.NewSet(s.kv, shopID)
		s.shopSets[shopID] = set
	}
	return set
}

func (s *Service) processorFor(shopID string) *billing.Processor {
	if shopID == "" {
		shopID = s.defaultShopID
	}
	set := s.ledgersFor(shopID)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processors[shopID]
	if !ok {
		p = billing.NewProcessor(s.carts, set, billing.NewSequence())
		s.processors[shopID] = p
	}
	return p
}

func (s *Service) requireAdmin(ctx context.Context) (domain.Session, error) {
	session, ok := SessionFromContext(ctx)
	if !ok || !session.IsAdmin() {
		return domain.Session{}, fmt.Errorf("%w: admin role required", ledger.ErrPermissionDenied)
	}
	return session, nil
}

func (s *Service) requireSession(ctx context.Context) (domain.Session, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: no session", ledger.ErrPermissionDenied)
	}
	return session, nil
}

// ---- Products ----

func (s *Service) ListProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	return s.ledgersFor(shopID).Inventory.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, shopID string, id string) (domain.Product, error) {
	return s.ledgersFor(shopID).Inventory.Get(ctx, id)
}

func (s *Service) GetProductByBarcode(ctx context.Context, shopID string, barcode string) (domain.Product, error) {
	return s.ledgersFor(shopID).Inventory.GetByBarcode(ctx, barcode)
}

func (s *Service) CreateProduct(ctx context.Context, shopID string, req domain.ProductCreateRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: product name required", ledger.ErrInvalidRecord)
	}
	if req.PriceCents < 0 || req.Quantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: negative price or quantity", ledger.ErrInvalidRecord)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:                uuid.NewString(),
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		Quantity:          req.Quantity,
		Category:          req.Category,
		Barcode:           strings.TrimSpace(req.Barcode),
		Currency:          req.Currency,
		LowStockThreshold: req.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.ledgersFor(shopID).Inventory.Create(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, shopID string, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	inventory := s.ledgersFor(shopID).Inventory
	product, err := inventory.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Barcode != nil {
		product.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	product.UpdatedAt = time.Now().UTC()

	return inventory.Update(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, shopID string, id string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.ledgersFor(shopID).Inventory.Delete(ctx, id)
}

func (s *Service) AdjustStock(ctx context.Context, shopID string, id string, delta float64, mode string) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	return s.ledgersFor(shopID).Inventory.AdjustStock(ctx, id, delta, mode)
}

func (s *Service) LowStockProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	return s.ledgersFor(shopID).Inventory.LowStock(ctx)
}

func (s *Service) OutOfStockProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	return s.ledgersFor(shopID).Inventory.OutOfStock(ctx)
}

// ---- Cart ----

func (s *Service) AddToCart(ctx context.Context, shopID string, req domain.AddToCartRequest) (domain.CartView, error) {
	product, err := s.ledgersFor(shopID).Inventory.Get(ctx, req.ProductID)
	if err != nil {
		return domain.CartView{}, err
	}
	lines, err := s.carts.AddItem(req.TerminalID, product, req.Quantity, req.CustomPriceCents)
	if err != nil {
		return domain.CartView{}, err
	}
	return cartView(req.TerminalID, lines), nil
}

func (s *Service) UpdateCartItem(ctx context.Context, shopID string, req domain.UpdateCartItemRequest) (domain.CartView, error) {
	product, err := s.ledgersFor(shopID).Inventory.Get(ctx, req.ProductID)
	if err != nil {
		return domain.CartView{}, err
	}
	lines, err := s.carts.UpdateItem(req.TerminalID, product, req.Quantity, req.PriceCents)
	if err != nil {
		return domain.CartView{}, err
	}
	return cartView(req.TerminalID, lines), nil
}

func (s *Service) RemoveCartItem(_ context.Context, terminalID string, productID string) (domain.CartView, error) {
	lines, err := s.carts.RemoveItem(terminalID, productID)
	if err != nil {
		return domain.CartView{}, err
	}
	return cartView(terminalID, lines), nil
}

func (s *Service) ClearCart(_ context.Context, terminalID string) domain.CartView {
	s.carts.Clear(terminalID)
	return cartView(terminalID, nil)
}

func (s *Service) GetCart(_ context.Context, terminalID string) domain.CartView {
	return cartView(terminalID, s.carts.Lines(terminalID))
}

func cartView(terminalID string, lines []domain.CartLine) domain.CartView {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return domain.CartView{
		TerminalID:    terminalID,
		Lines:         lines,
		SubtotalCents: cart.SubtotalCents(lines),
	}
}

// ---- Billing ----

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}
	bill, err := s.processorFor(req.ShopID).ProcessBill(ctx, session, req)
	if err != nil {
		// Validation failures come back as a structured refusal rather
		// than an error; the register shows them inline.
		return domain.CheckoutResponse{Success: false, Error: err.Error()}, nil
	}
	return domain.CheckoutResponse{Success: true, Bill: &bill}, nil
}

func (s *Service) ListBills(ctx context.Context, shopID string) ([]domain.Bill, error) {
	return s.ledgersFor(shopID).Bills.List(ctx)
}

func (s *Service) GetBill(ctx context.Context, shopID string, id string) (domain.Bill, error) {
	return s.ledgersFor(shopID).Bills.Get(ctx, id)
}

func (s *Service) DeleteBill(ctx context.Context, shopID string, id string) error {
	session, err := s.requireSession(ctx)
	if err != nil {
		return err
	}
	return s.processorFor(shopID).DeleteBill(ctx, session, id)
}

func (s *Service) BuildReceipt(ctx context.Context, shopID string, billID string) (export.Receipt, error) {
	bill, err := s.ledgersFor(shopID).Bills.Get(ctx, billID)
	if err != nil {
		return export.Receipt{}, err
	}
	shopName := ""
	if shopID != "" {
		if shop, err := s.shops.Get(ctx, shopID); err == nil {
			shopName = shop.Name
		}
	}
	return export.BuildReceipt(bill, shopName), nil
}

// ---- Customers ----

func (s *Service) ListCustomers(ctx context.Context, shopID string) ([]domain.Customer, error) {
	return s.ledgersFor(shopID).Customers.List(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, shopID string, id string) (domain.Customer, error) {
	return s.ledgersFor(shopID).Customers.Get(ctx, id)
}

func (s *Service) SearchCustomers(ctx context.Context, shopID string, query string) ([]domain.Customer, error) {
	return s.ledgersFor(shopID).Customers.Search(ctx, query)
}

func (s *Service) CreateCustomer(ctx context.Context, shopID string, req domain.CustomerCreateRequest) (domain.Customer, error) {
	if _, err := s.requireSession(ctx); err != nil {
		return domain.Customer{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Customer{}, fmt.Errorf("%w: customer name required", ledger.ErrInvalidRecord)
	}
	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.ledgersFor(shopID).Customers.Create(ctx, customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, shopID string, id string, req domain.CustomerUpdateRequest) (domain.Customer, error) {
	if _, err := s.requireSession(ctx); err != nil {
		return domain.Customer{}, err
	}
	customers := s.ledgersFor(shopID).Customers
	customer, err := customers.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	customer.UpdatedAt = time.Now().UTC()
	return customers.Update(ctx, customer)
}

func (s *Service) DeleteCustomer(ctx context.Context, shopID string, id string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.ledgersFor(shopID).Customers.Delete(ctx, id)
}

// ---- Suppliers ----

func (s *Service) ListSuppliers(ctx context.Context, shopID string) ([]domain.Supplier, error) {
	return s.ledgersFor(shopID).Suppliers.List(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, shopID string, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Supplier{}, fmt.Errorf("%w: supplier name required", ledger.ErrInvalidRecord)
	}
	supplier := domain.Supplier{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: time.Now().UTC(),
	}
	return s.ledgersFor(shopID).Suppliers.Create(ctx, supplier)
}

func (s *Service) DeleteSupplier(ctx context.Context, shopID string, id string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.ledgersFor(shopID).Suppliers.Delete(ctx, id)
}

// ---- GRN ----

func (s *Service) ListGRNs(ctx context.Context, shopID string) ([]domain.GRN, error) {
	return s.ledgersFor(shopID).GRN.List(ctx)
}

// CreateGRN records inbound stock and credits inventory for every item
// that references a catalog product. Free-text items (no product id)
// are recorded on the note only.
func (s *Service) CreateGRN(ctx context.Context, shopID string, req domain.GRNCreateRequest) (domain.GRN, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.GRN{}, err
	}
	if len(req.Items) == 0 {
		return domain.GRN{}, fmt.Errorf("%w: grn requires items", ledger.ErrInvalidRecord)
	}

	set := s.ledgersFor(shopID)
	now := time.Now().UTC()

	var totalCents int64
	for _, item := range req.Items {
		totalCents += cart.LineTotalCents(item.PriceCents, item.Quantity)
	}

	grn := domain.GRN{
		ID:              uuid.NewString(),
		GRNNumber:       fmt.Sprintf("GRN-%s-%s", now.Format("060102"), strings.ToUpper(uuid.NewString()[:8])),
		Supplier:        strings.TrimSpace(req.Supplier),
		Items:           req.Items,
		TotalValueCents: totalCents,
		Status:          domain.GRNStatusReceived,
		CreatedBy:       session.Username,
		CreatedAt:       now,
	}

	if err := set.GRN.Append(ctx, grn); err != nil {
		return domain.GRN{}, err
	}

	for _, item := range req.Items {
		if item.ProductID == "" {
			continue
		}
		if _, err := set.Inventory.AdjustStock(ctx, item.ProductID, item.Quantity, ledger.StockAdd); err != nil {
			log.Printf("[service] WARN: grn %s: crediting stock for product %s: %v", grn.GRNNumber, item.ProductID, err)
		}
	}

	return grn, nil
}

// ---- Returns ----

func (s *Service) ListReturns(ctx context.Context, shopID string) ([]domain.Return, error) {
	return s.ledgersFor(shopID).Returns.List(ctx)
}

func (s *Service) CreateReturn(ctx context.Context, shopID string, req domain.ReturnCreateRequest) (domain.Return, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	if len(req.Items) == 0 {
		return domain.Return{}, fmt.Errorf("%w: return requires items", ledger.ErrInvalidRecord)
	}

	now := time.Now().UTC()
	var totalCents int64
	for _, item := range req.Items {
		totalCents += cart.LineTotalCents(item.PriceCents, item.Quantity)
	}

	ret := domain.Return{
		ID:              uuid.NewString(),
		ReturnNumber:    fmt.Sprintf("RET-%s-%s", now.Format("060102"), strings.ToUpper(uuid.NewString()[:8])),
		BillID:          req.BillID,
		Items:           req.Items,
		TotalValueCents: totalCents,
		CashierName:     session.Name,
		CreatedAt:       now,
	}
	return s.ledgersFor(shopID).Returns.Create(ctx, ret)
}

// ResolveReturn approves or rejects a pending return. Approval credits
// the returned quantities back to inventory.
func (s *Service) ResolveReturn(ctx context.Context, shopID string, id string, status string) (domain.Return, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	if !session.CanApproveReturns() {
		return domain.Return{}, fmt.Errorf("%w: admin role required", ledger.ErrPermissionDenied)
	}

	set := s.ledgersFor(shopID)
	resolved, err := set.Returns.Resolve(ctx, id, status, session.Name, time.Now().UTC())
	if err != nil {
		return domain.Return{}, err
	}

	if resolved.Status == domain.ReturnStatusApproved {
		for _, item := range resolved.Items {
			if item.ProductID == "" {
				continue
			}
			if _, err := set.Inventory.AdjustStock(ctx, item.ProductID, item.Quantity, ledger.StockAdd); err != nil {
				log.Printf("[service] WARN: return %s: restocking product %s: %v", resolved.ReturnNumber, item.ProductID, err)
			}
		}
	}

	return resolved, nil
}

// ---- Users ----

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest, passwordHash string) (domain.User, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !session.CanManageUsers() {
		return domain.User{}, fmt.Errorf("%w: admin role required", ledger.ErrPermissionDenied)
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || passwordHash == "" {
		return domain.User{}, fmt.Errorf("%w: username and password required", ledger.ErrInvalidRecord)
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleCashier {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ledger.ErrInvalidRecord, req.Role)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	created.PasswordHash = ""
	return created, nil
}

func (s *Service) SetUserActive(ctx context.Context, id string, active bool) (domain.User, error) {
	session, err := s.requireSession(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !session.CanManageUsers() {
		return domain.User{}, fmt.Errorf("%w: admin role required", ledger.ErrPermissionDenied)
	}
	user, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Users() *ledger.UserLedger { return s.users }

// ---- Shops ----

func (s *Service) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return s.shops.List(ctx)
}

func (s *Service) CreateShop(ctx context.Context, req domain.ShopCreateRequest) (domain.Shop, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Shop{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Shop{}, fmt.Errorf("%w: shop name required", ledger.ErrInvalidRecord)
	}
	shop := domain.Shop{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Address:   strings.TrimSpace(req.Address),
		Settings:  req.Settings,
		CreatedAt: time.Now().UTC(),
	}
	return s.shops.Create(ctx, shop)
}

// ---- Notifications ----

func (s *Service) ListNotifications(ctx context.Context, shopID string) ([]domain.Notification, error) {
	return s.ledgersFor(shopID).Notifications.List(ctx)
}

func (s *Service) UnreadNotifications(ctx context.Context, shopID string) ([]domain.Notification, error) {
	return s.ledgersFor(shopID).Notifications.Unread(ctx)
}

func (s *Service) MarkNotificationRead(ctx context.Context, shopID string, id string) error {
	return s.ledgersFor(shopID).Notifications.MarkRead(ctx, id)
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, shopID string) error {
	return s.ledgersFor(shopID).Notifications.MarkAllRead(ctx)
}

// ---- Reports ----

// ReportSummary computes one shop's analytics for a period. Results are
// cached briefly; a checkout landing inside the TTL shows up on the
// next refresh.
func (s *Service) ReportSummary(ctx context.Context, shopID string, period string, start, end time.Time) (report.Summary, error) {
	r, err := report.ResolveRange(period, start, end, time.Now(), s.reportLocation)
	if err != nil {
		return report.Summary{}, err
	}

	cacheKey := fmt.Sprintf("report:%s:%s:%s:%s", shopID, r.Period, r.From.Format("20060102"), r.To.Format("20060102"))
	if cached, ok, err := s.reports.Get(ctx, cacheKey); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: report cache get: %v", err)
	}

	summary, err := s.buildSummary(ctx, shopID, r)
	if err != nil {
		return report.Summary{}, err
	}

	if s.reportTTL > 0 {
		if err := s.reports.Set(ctx, cacheKey, &summary, s.reportTTL); err != nil {
			log.Printf("[service] WARN: report cache set: %v", err)
		}
	}
	return summary, nil
}

func (s *Service) buildSummary(ctx context.Context, shopID string, r report.Range) (report.Summary, error) {
	set := s.ledgersFor(shopID)
	bills, err := set.Bills.ListRange(ctx, r.From, r.To)
	if err != nil {
		return report.Summary{}, err
	}
	grns, err := set.GRN.ListRange(ctx, r.From, r.To)
	if err != nil {
		return report.Summary{}, err
	}
	returns, err := set.Returns.ListRange(ctx, r.From, r.To)
	if err != nil {
		return report.Summary{}, err
	}
	return report.BuildSummary(r, bills, grns, returns, s.reportLocation), nil
}

// MultiShopReport aggregates every registered shop plus the default
// shop's unscoped collections into per-shop tables and a grand total.
func (s *Service) MultiShopReport(ctx context.Context, period string, start, end time.Time) (report.MultiShopSummary, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return report.MultiShopSummary{}, err
	}
	r, err := report.ResolveRange(period, start, end, time.Now(), s.reportLocation)
	if err != nil {
		return report.MultiShopSummary{}, err
	}

	shops, err := s.shops.List(ctx)
	if err != nil {
		return report.MultiShopSummary{}, err
	}

	summaries := make([]report.ShopSummary, 0, len(shops)+1)
	defaultSummary, err := s.buildSummary(ctx, s.defaultShopID, r)
	if err != nil {
		return report.MultiShopSummary{}, err
	}
	summaries = append(summaries, report.ShopSummary{
		ShopID:   s.defaultShopID,
		ShopName: s.defaultShopID,
		Summary:  defaultSummary,
	})
	for _, shop := range shops {
		if shop.ID == s.defaultShopID {
			continue
		}
		summary, err := s.buildSummary(ctx, shop.ID, r)
		if err != nil {
			return report.MultiShopSummary{}, err
		}
		summaries = append(summaries, report.ShopSummary{
			ShopID:   shop.ID,
			ShopName: shop.Name,
			Summary:  summary,
		})
	}

	return report.MergeShops(r, summaries), nil
}

// ---- Exports ----

func (s *Service) ExportSummaryCSV(ctx context.Context, shopID string, period string, start, end time.Time) (string, error) {
	summary, err := s.ReportSummary(ctx, shopID, period, start, end)
	if err != nil {
		return "", err
	}
	return export.SummaryCSV(summary), nil
}

func (s *Service) ExportSummaryWorkbook(ctx context.Context, shopID string, period string, start, end time.Time) ([]byte, error) {
	summary, err := s.ReportSummary(ctx, shopID, period, start, end)
	if err != nil {
		return nil, err
	}
	return export.SummaryWorkbook(summary)
}
