package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/validator"
)

// FakeToken is the bearer token the fake backend issues and accepts.
const FakeToken = "fake-access-token"

type failure struct {
	status  int
	message string
}

// FakeBackend is an in-memory stand-in for the KasKita REST backend. Routes
// are addressed as "METHOD /path" using gin route patterns, e.g.
// "POST /api/transactions/:id".
type FakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	seq      int
	calls    map[string]int
	queries  map[string]url.Values
	failures map[string]failure
	gates    map[string]chan struct{}

	Token     string
	ExpiresIn int64

	User            models.User
	Settings        models.UserSettings
	Assets          []models.Asset
	AssetCategories []models.AssetCategory
	Savings         []models.Saving
	Loans           []models.Loan
	Categories      []models.TransactionCategory
	Transactions    []models.Transaction
	Totals          []models.CategoryTotal
	BudgetSpent     []models.CategoryBudgetSpent
	MonthlySummary  []models.MonthlySummary
	Images          []models.Image
	DeletedImages   []string
	LastForm        url.Values
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Register()

	b := &FakeBackend{
		calls:     make(map[string]int),
		queries:   make(map[string]url.Values),
		failures:  make(map[string]failure),
		gates:     make(map[string]chan struct{}),
		Token:     FakeToken,
		ExpiresIn: 3600,
		User:      models.User{ID: "user-1", Name: "Sari", Email: "sari@kaskita.id", GroupID: "group-1"},
		Settings:  models.UserSettings{ClosingDate: 1, Currency: "IDR", Timezone: "Asia/Jakarta"},
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL of the fake.
func (b *FakeBackend) URL() string { return b.server.URL }

// Client returns an HTTP client for the fake.
func (b *FakeBackend) Client() *http.Client { return b.server.Client() }

// Calls returns how many requests hit route.
func (b *FakeBackend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls returns how many requests the fake served.
func (b *FakeBackend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// LastQuery returns the query string of the latest request to route.
func (b *FakeBackend) LastQuery(route string) url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries[route]
}

// Fail makes every request to route answer with status and message until
// Recover is called.
func (b *FakeBackend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

// Recover undoes Fail.
func (b *FakeBackend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Gate holds requests to route until the returned release func is called.
func (b *FakeBackend) Gate(route string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[route] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(ch)
			b.mu.Lock()
			delete(b.gates, route)
			b.mu.Unlock()
		})
	}
}

func (b *FakeBackend) nextID(prefix string) models.ID {
	b.seq++
	return models.ID(fmt.Sprintf("%s-%d", prefix, b.seq))
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"message": "success", "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// track counts requests, applies gates and injected failures.
func (b *FakeBackend) track(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	b.mu.Lock()
	b.calls[route]++
	b.queries[route] = c.Request.URL.Query()
	gate := b.gates[route]
	f, failing := b.failures[route]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	if failing {
		fail(c, f.status, f.message)
		return
	}
	c.Next()
}

func (b *FakeBackend) requireToken(c *gin.Context) {
	b.mu.Lock()
	want := "Bearer " + b.Token
	b.mu.Unlock()
	if c.GetHeader("Authorization") != want {
		fail(c, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	c.Next()
}

func (b *FakeBackend) router() *gin.Engine {
	r := gin.New()
	r.Use(b.track)

	r.POST("/api/login", b.login)
	r.POST("/api/register", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "Registrasi berhasil"})
	})
	r.POST("/api/refresh", func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			fail(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"access_token": b.Token, "expires_in": b.ExpiresIn})
	})

	api := r.Group("/api", b.requireToken)
	api.POST("/logout", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Logout berhasil"}) })
	api.GET("/profile", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.User) }))
	api.POST("/profile/update", b.locked(func(c *gin.Context) {
		var in struct {
			Name string `json:"name"`
		}
		_ = c.ShouldBindJSON(&in)
		b.User.Name = in.Name
		ok(c, http.StatusOK, b.User)
	}))

	api.GET("/user/settings", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Settings) }))
	api.PUT("/user/settings", b.locked(b.updateSettings))

	api.GET("/asset-categories", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.AssetCategories) }))
	api.GET("/assets", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Assets) }))
	api.POST("/assets", b.locked(b.saveAsset))
	api.PUT("/assets/:id", b.locked(b.saveAsset))
	api.DELETE("/assets/:id", b.locked(func(c *gin.Context) {
		b.Assets = remove(c, b.Assets, func(a models.Asset) models.ID { return a.ID })
	}))

	api.GET("/savings", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Savings) }))
	api.POST("/savings", b.locked(b.saveSaving))
	api.PUT("/savings/:id", b.locked(b.saveSaving))
	api.DELETE("/savings/:id", b.locked(func(c *gin.Context) {
		b.Savings = remove(c, b.Savings, func(s models.Saving) models.ID { return s.ID })
	}))

	api.GET("/loans", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Loans) }))
	api.POST("/loans", b.locked(b.saveLoan))
	api.PUT("/loans/:id", b.locked(b.saveLoan))
	api.DELETE("/loans/:id", b.locked(func(c *gin.Context) {
		b.Loans = remove(c, b.Loans, func(l models.Loan) models.ID { return l.ID })
	}))

	api.GET("/transaction-categories", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Categories) }))
	api.GET("/transaction-categories/total-amount", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Totals) }))
	api.GET("/transaction-categories/budget-spent", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.BudgetSpent) }))
	api.GET("/transaction-categories/:id", b.locked(func(c *gin.Context) {
		for _, cat := range b.Categories {
			if cat.ID.String() == c.Param("id") {
				ok(c, http.StatusOK, cat)
				return
			}
		}
		fail(c, http.StatusNotFound, "Kategori tidak ditemukan")
	}))
	api.POST("/transaction-categories", b.locked(b.saveCategory))
	api.PUT("/transaction-categories/:id", b.locked(b.saveCategory))
	api.DELETE("/transaction-categories/:id", b.locked(func(c *gin.Context) {
		b.Categories = remove(c, b.Categories, func(cat models.TransactionCategory) models.ID { return cat.ID })
	}))
	api.POST("/transaction-category-budgets", b.locked(b.saveBudget))
	api.PUT("/transaction-category-budgets/:id", b.locked(b.saveBudget))

	api.GET("/transactions", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.Transactions) }))
	api.GET("/transactions/monthly-summary", b.locked(func(c *gin.Context) { ok(c, http.StatusOK, b.MonthlySummary) }))
	api.POST("/transactions", b.locked(b.saveTransaction))
	api.POST("/transactions/create-by-voice", b.locked(b.createByVoice))
	api.POST("/transactions/:id", b.locked(b.saveTransaction))
	api.DELETE("/transactions/:id", b.locked(func(c *gin.Context) {
		b.Transactions = remove(c, b.Transactions, func(tx models.Transaction) models.ID { return tx.ID })
	}))

	api.POST("/images/add", b.locked(b.addImage))
	api.POST("/images/delete", b.locked(func(c *gin.Context) {
		var in struct {
			Path string `json:"path"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Path == "" {
			fail(c, http.StatusUnprocessableEntity, "path wajib diisi")
			return
		}
		b.DeletedImages = append(b.DeletedImages, in.Path)
		ok(c, http.StatusOK, nil)
	}))

	return r
}

// locked runs h with the state lock held.
func (b *FakeBackend) locked(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		h(c)
	}
}

func remove[T any](c *gin.Context, items []T, id func(T) models.ID) []T {
	for i, item := range items {
		if id(item).String() == c.Param("id") {
			ok(c, http.StatusOK, nil)
			return append(items[:i:i], items[i+1:]...)
		}
	}
	fail(c, http.StatusNotFound, "Data tidak ditemukan")
	return items
}

func (b *FakeBackend) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Password == "wrong" {
		fail(c, http.StatusUnauthorized, "Email atau password salah")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"access_token": b.Token, "expires_in": b.ExpiresIn})
}

func (b *FakeBackend) updateSettings(c *gin.Context) {
	var in models.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.Settings = models.UserSettings{
		ClosingDate:       models.FlexInt(in.ClosingDate),
		Currency:          in.Currency,
		Timezone:          in.Timezone,
		DefaultAssetID:    in.DefaultAssetID,
		DefaultCategoryID: in.DefaultCategoryID,
	}
	ok(c, http.StatusOK, b.Settings)
}

func (b *FakeBackend) saveAsset(c *gin.Context) {
	var in models.AssetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	asset := models.Asset{Name: in.Name, CategoryID: in.CategoryID, Balance: in.Balance}
	if id := c.Param("id"); id != "" {
		for i := range b.Assets {
			if b.Assets[i].ID.String() == id {
				asset.ID = b.Assets[i].ID
				b.Assets[i] = asset
				ok(c, http.StatusOK, asset)
				return
			}
		}
		fail(c, http.StatusNotFound, "Aset tidak ditemukan")
		return
	}
	asset.ID = b.nextID("asset")
	b.Assets = append(b.Assets, asset)
	ok(c, http.StatusCreated, asset)
}

func (b *FakeBackend) saveSaving(c *gin.Context) {
	var in models.SavingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	saving := models.Saving{Name: in.Name, TargetAmount: in.TargetAmount, CurrentAmount: in.CurrentAmount, DueDate: in.DueDate}
	if id := c.Param("id"); id != "" {
		for i := range b.Savings {
			if b.Savings[i].ID.String() == id {
				saving.ID = b.Savings[i].ID
				b.Savings[i] = saving
				ok(c, http.StatusOK, saving)
				return
			}
		}
		fail(c, http.StatusNotFound, "Tabungan tidak ditemukan")
		return
	}
	saving.ID = b.nextID("saving")
	b.Savings = append(b.Savings, saving)
	ok(c, http.StatusCreated, saving)
}

func (b *FakeBackend) saveLoan(c *gin.Context) {
	var in models.LoanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	loan := models.Loan{
		Name:             in.Name,
		LenderName:       in.LenderName,
		Principal:        in.Principal,
		RemainingBalance: in.RemainingBalance,
		InterestRate:     in.InterestRate,
		DueDate:          in.DueDate,
	}
	if id := c.Param("id"); id != "" {
		for i := range b.Loans {
			if b.Loans[i].ID.String() == id {
				loan.ID = b.Loans[i].ID
				b.Loans[i] = loan
				ok(c, http.StatusOK, loan)
				return
			}
		}
		fail(c, http.StatusNotFound, "Pinjaman tidak ditemukan")
		return
	}
	loan.ID = b.nextID("loan")
	b.Loans = append(b.Loans, loan)
	ok(c, http.StatusCreated, loan)
}

func (b *FakeBackend) saveCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if id := c.Param("id"); id != "" {
		for i := range b.Categories {
			if b.Categories[i].ID.String() == id {
				b.Categories[i].Name = in.Name
				b.Categories[i].BaseBudget = in.BaseBudget
				ok(c, http.StatusOK, b.Categories[i])
				return
			}
		}
		fail(c, http.StatusNotFound, "Kategori tidak ditemukan")
		return
	}
	cat := models.TransactionCategory{Name: in.Name, Type: in.Type, BaseBudget: in.BaseBudget}
	cat.ID = b.nextID("category")
	b.Categories = append(b.Categories, cat)
	ok(c, http.StatusCreated, cat)
}

func (b *FakeBackend) saveBudget(c *gin.Context) {
	var in models.BudgetPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rec := models.MonthlyBudget{
		TransactionCategoryID: in.TransactionCategoryID,
		Budget:                money.FromString(in.Budget),
		IsGlobal:              in.IsGlobal,
	}
	if in.Month != nil {
		rec.Month = models.FlexInt(*in.Month)
	}
	if in.Year != nil {
		rec.Year = models.FlexInt(*in.Year)
	}

	for i := range b.Categories {
		cat := &b.Categories[i]
		if cat.ID != in.TransactionCategoryID {
			continue
		}
		if id := c.Param("id"); id != "" {
			for j := range cat.MonthlyBudgets {
				if cat.MonthlyBudgets[j].ID.String() == id {
					rec.ID = cat.MonthlyBudgets[j].ID
					cat.MonthlyBudgets[j] = rec
					if rec.IsGlobal {
						cat.BaseBudget = rec.Budget
					}
					ok(c, http.StatusOK, rec)
					return
				}
			}
			fail(c, http.StatusNotFound, "Budget tidak ditemukan")
			return
		}
		rec.ID = b.nextID("budget")
		cat.MonthlyBudgets = append(cat.MonthlyBudgets, rec)
		if rec.IsGlobal {
			cat.BaseBudget = rec.Budget
		}
		ok(c, http.StatusCreated, rec)
		return
	}
	fail(c, http.StatusNotFound, "Kategori tidak ditemukan")
}

func (b *FakeBackend) saveTransaction(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
		fail(c, http.StatusBadRequest, "multipart form required")
		return
	}
	form := c.Request.MultipartForm.Value
	b.LastForm = url.Values(form)

	tx := models.Transaction{
		Type:            models.TransactionType(c.PostForm("type")),
		Date:            c.PostForm("date"),
		Amount:          money.FromString(c.PostForm("amount")),
		AssetID:         models.ID(c.PostForm("asset_id")),
		CategoryID:      models.ID(c.PostForm("category_id")),
		TransferAssetID: models.ID(c.PostForm("transfer_asset_id")),
		AdditionalCost:  money.FromString(c.PostForm("additional_cost")),
		ReferenceID:     models.ID(c.PostForm("reference_id")),
		ReferenceType:   models.ReferenceType(c.PostForm("reference_type")),
		Note:            c.PostForm("note"),
		Description:     c.PostForm("description"),
	}

	if id := c.Param("id"); id != "" {
		for i := range b.Transactions {
			if b.Transactions[i].ID.String() == id {
				tx.ID = b.Transactions[i].ID
				tx.Image = b.Transactions[i].Image
				b.Transactions[i] = tx
				ok(c, http.StatusOK, tx)
				return
			}
		}
		fail(c, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	tx.ID = b.nextID("tx")
	b.Transactions = append([]models.Transaction{tx}, b.Transactions...)
	ok(c, http.StatusCreated, tx)
}

func (b *FakeBackend) createByVoice(c *gin.Context) {
	file, err := c.FormFile("voice")
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "voice wajib diisi")
		return
	}
	tx := models.Transaction{
		Type:   models.TransactionTypeExpenses,
		Amount: 25000,
		Note:   "voice: " + file.Filename,
	}
	tx.ID = b.nextID("tx")
	b.Transactions = append([]models.Transaction{tx}, b.Transactions...)
	ok(c, http.StatusCreated, tx)
}

func (b *FakeBackend) addImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "file wajib diisi")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(io.Discard, f); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	img := models.Image{
		ID:        b.nextID("image"),
		TableName: c.PostForm("table_name"),
		TableID:   models.ID(c.PostForm("table_id")),
		Path:      "images/" + fh.Filename,
	}
	b.Images = append(b.Images, img)
	for i := range b.Transactions {
		if b.Transactions[i].ID == img.TableID {
			b.Transactions[i].Image = []models.Image{img}
		}
	}
	ok(c, http.StatusCreated, img)
}
