package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nashikconnect/vyapaar/internal/dbtest"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

type recordingBus struct {
	topics []string
	args   [][]interface{}
}

func (b *recordingBus) Publish(topic string, args ...interface{}) {
	b.topics = append(b.topics, topic)
	b.args = append(b.args, args)
}

func newService(t *testing.T) (*Service, *recordingBus, *repository.Repositories) {
	repos := repository.New(dbtest.Open(t))
	bus := &recordingBus{}
	return NewService(repos.Stores, repos.Products, bus), bus, repos
}

func storeForm(name string) StoreForm {
	return StoreForm{
		StoreName: name,
		Category:  "Food",
		Address:   "Panchavati, Nashik",
		Phone:     "9876543210",
		IsOpen:    true,
		IsActive:  true,
	}
}

func TestSaveStoreInsertThenUpdate(t *testing.T) {
	s, bus, _ := newService(t)
	ctx := context.Background()

	first, created, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.StoreIcon, first.StoreImageURL)

	second, created, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweet House"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Godavari Sweet House", second.StoreName)

	assert.Equal(t, []string{events.TopicStoreSaved, events.TopicStoreSaved}, bus.topics)
	assert.Equal(t, true, bus.args[0][1])
	assert.Equal(t, false, bus.args[1][1])
}

func TestSaveStoreValidation(t *testing.T) {
	s, bus, _ := newService(t)
	form := storeForm("")
	form.Email = "shop@"
	lat := 123.0
	form.Latitude = &lat

	_, _, err := s.SaveStore(context.Background(), "m1", form)
	var fields common.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "Store name is required", fields["store_name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Invalid latitude", fields["latitude"])
	assert.Empty(t, bus.topics)
}

func TestCreateProductNeedsStore(t *testing.T) {
	s, _, _ := newService(t)
	_, err := s.CreateProduct(context.Background(), "m1", ProductForm{Name: "Peda", Price: decimal.NewFromInt(120)})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestCreateProductDefaults(t *testing.T) {
	s, bus, _ := newService(t)
	ctx := context.Background()
	store, _, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)

	p, err := s.CreateProduct(ctx, "m1", ProductForm{Name: " Peda ", Price: decimal.RequireFromString("120.456"), Stock: 10, SerialNo: "pd-1"})
	require.NoError(t, err)
	assert.Equal(t, "Peda", p.Name)
	assert.Equal(t, domain.ProductFormIcon, p.ImageURL)
	assert.Equal(t, domain.DefaultCategory, p.Category)
	assert.Equal(t, "120.46", p.Price.StringFixed(2))
	assert.Equal(t, "PD-1", p.SerialNo)
	assert.Equal(t, 0, p.Sold)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.StoreID)
	assert.Equal(t, store.ID, *p.StoreID)

	require.Len(t, bus.topics, 2)
	assert.Equal(t, events.TopicProductCreated, bus.topics[1])
	assert.Equal(t, events.SourceForm, bus.args[1][1])
}

func TestUpdateProduct(t *testing.T) {
	s, bus, repos := newService(t)
	ctx := context.Background()
	_, _, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, "m1", ProductForm{Name: "Peda", Price: decimal.NewFromInt(120), Stock: 10})
	require.NoError(t, err)
	p.Sold = 4
	require.NoError(t, repos.Products.Update(ctx, p))

	inactive := false
	updated, err := s.UpdateProduct(ctx, "m1", p.ID, ProductForm{Name: "Kandi Peda", Price: decimal.NewFromInt(150), Stock: 6, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Kandi Peda", updated.Name)
	assert.Equal(t, 4, updated.Sold)
	assert.False(t, updated.IsActive)
	assert.Equal(t, events.TopicProductUpdated, bus.topics[len(bus.topics)-1])

	_, err = s.UpdateProduct(ctx, "m2", p.ID, ProductForm{Name: "Stolen", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = s.UpdateProduct(ctx, "m1", p.ID, ProductForm{Name: "", Price: decimal.NewFromInt(-1), Stock: -1})
	var fields common.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Len(t, fields, 3)
}

func TestDashboard(t *testing.T) {
	s, _, repos := newService(t)
	ctx := context.Background()
	_, err := s.Dashboard(ctx, "m1")
	assert.ErrorIs(t, err, ErrNoStore)

	_, _, err = s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)
	for _, f := range []ProductForm{
		{Name: "Peda", Price: decimal.NewFromInt(100), Stock: 3},
		{Name: "Chivda", Price: decimal.NewFromInt(200), Stock: 20},
		{Name: "Modak", Price: decimal.NewFromInt(600), Stock: 8},
	} {
		p, err := s.CreateProduct(ctx, "m1", f)
		require.NoError(t, err)
		p.Sold = 2
		require.NoError(t, repos.Products.Update(ctx, p))
	}

	d, err := s.Dashboard(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Products)
	assert.Equal(t, 3, d.Active)
	assert.Equal(t, 31, d.TotalStock)
	assert.Equal(t, 6, d.TotalSold)
	assert.Equal(t, "1800", d.Revenue.String())
	assert.Equal(t, 300.0, d.MeanPrice)
	assert.Equal(t, 200.0, d.MedianPrice)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "Peda", d.LowStock[0].Name)
	assert.Len(t, d.Recent, 3)
}

func seedCatalog(t *testing.T, s *Service) {
	ctx := context.Background()
	_, _, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, "m1", ProductForm{Name: "Peda", Price: decimal.NewFromInt(120), Stock: 10, Category: "Food"})
	require.NoError(t, err)
}

func TestExportCSV(t *testing.T) {
	s, _, _ := newService(t)
	var empty bytes.Buffer
	require.NoError(t, s.ExportCSV(context.Background(), "m1", &empty))
	assert.Equal(t, "id,serial_no,name,description,category,price,stock,sold,image_url,is_active,created_at\n", empty.String())

	seedCatalog(t, s)
	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(context.Background(), "m1", &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,serial_no,name"))
	assert.Contains(t, lines[1], ",Peda,,Food,120.00,10,0,📦,true,")
}

func TestExportXLSX(t *testing.T) {
	s, _, _ := newService(t)
	seedCatalog(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportXLSX(context.Background(), "m1", &buf))
	book, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "name", book.GetCellValue(SheetName, "C1"))
	assert.Equal(t, "Peda", book.GetCellValue(SheetName, "C2"))
	assert.Equal(t, "120", book.GetCellValue(SheetName, "F2"))
	assert.Equal(t, "10", book.GetCellValue(SheetName, "G2"))
}

func TestImportCSV(t *testing.T) {
	s, bus, repos := newService(t)
	ctx := context.Background()
	_, err := s.ImportCSV(ctx, "m1", strings.NewReader("name,price\nPeda,10\n"))
	assert.ErrorIs(t, err, ErrNoStore)

	_, _, err = s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)
	csv := "name,price,stock,category,is_active,serial_no\n" +
		"Peda,120,10,Food,,sku-1\n" +
		"Old Chivda,80.5,,,false,\n"
	items, err := s.ImportCSV(ctx, "m1", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "SKU-1", items[0].SerialNo)
	assert.True(t, items[0].IsActive)
	assert.False(t, items[1].IsActive)
	assert.Equal(t, domain.DefaultCategory, items[1].Category)
	assert.Equal(t, "80.5", items[1].Price.String())

	_, total, err := repos.Products.ListByUser(ctx, "m1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, events.SourceImport, bus.args[len(bus.args)-1][1])
}

func TestImportCSVIsAllOrNothing(t *testing.T) {
	s, _, repos := newService(t)
	ctx := context.Background()
	_, _, err := s.SaveStore(ctx, "m1", storeForm("Godavari Sweets"))
	require.NoError(t, err)

	csv := "name,price\nPeda,120\n,50\nLadoo,abc\n"
	_, err = s.ImportCSV(ctx, "m1", strings.NewReader(csv))
	var fields common.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "Product name is required", fields["row 3.name"])
	assert.Equal(t, "Invalid price", fields["row 4"])

	_, total, err := repos.Products.ListByUser(ctx, "m1", 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = s.ImportCSV(ctx, "m1", strings.NewReader("name,price\n"))
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "file")
}
