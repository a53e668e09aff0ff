package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

const (
	SheetName = "Products"

	// MaxImportRows bounds a single CSV import
	MaxImportRows = 1000
)

// productRow is the spreadsheet shape of a product, shared by export and import.
type productRow struct {
	ID          string `csv:"id"`
	SerialNo    string `csv:"serial_no"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Price       string `csv:"price"`
	Stock       int    `csv:"stock"`
	Sold        int    `csv:"sold"`
	ImageURL    string `csv:"image_url"`
	IsActive    string `csv:"is_active"`
	CreatedAt   string `csv:"created_at"`
}

var rowHeaders = []string{
	"id", "serial_no", "name", "description", "category", "price",
	"stock", "sold", "image_url", "is_active", "created_at",
}

func toRow(p *domain.Product) *productRow {
	return &productRow{
		ID:          p.ID,
		SerialNo:    p.SerialNo,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Sold:        p.Sold,
		ImageURL:    p.ImageURL,
		IsActive:    fmt.Sprint(p.IsActive),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Service) rows(ctx context.Context, userID string) ([]*productRow, error) {
	items, _, err := s.products.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	rows := make([]*productRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, toRow(p))
	}
	return rows, nil
}

// ExportCSV writes the merchant's catalog, newest first.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.rows(ctx, userID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err = io.WriteString(w, strings.Join(rowHeaders, ",")+"\n")
		return err
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "write csv")
}

// ExportXLSX writes the merchant's catalog as a single sheet workbook.
func (s *Service) ExportXLSX(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.rows(ctx, userID)
	if err != nil {
		return err
	}
	xlsx := excelize.NewFile()
	xlsx.SetSheetName("Sheet1", SheetName)
	for col, h := range rowHeaders {
		xlsx.SetCellValue(SheetName, cell(col, 1), h)
	}
	for i, r := range rows {
		line := i + 2
		price, _ := decimal.NewFromString(r.Price)
		values := []interface{}{
			r.ID, r.SerialNo, r.Name, r.Description, r.Category, price.InexactFloat64(),
			r.Stock, r.Sold, r.ImageURL, r.IsActive, r.CreatedAt,
		}
		for col, v := range values {
			xlsx.SetCellValue(SheetName, cell(col, line), v)
		}
	}
	return errors.Wrap(xlsx.Write(w), "write xlsx")
}

func cell(col, line int) string {
	return excelize.ToAlphaString(col) + fmt.Sprint(line)
}

// ImportCSV adds every row of r as a new product of the merchant's store.
// Only name is required; id, sold and created_at columns are ignored. Either
// all rows are stored or none.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader) ([]*domain.Product, error) {
	store, err := s.Store(ctx, userID)
	if err != nil {
		return nil, err
	}
	var rows []*productRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, common.FieldErrors{"file": "Invalid CSV file: " + err.Error()}
	}
	if len(rows) == 0 {
		return nil, common.FieldErrors{"file": "CSV file has no products"}
	}
	if len(rows) > MaxImportRows {
		return nil, common.FieldErrors{"file": fmt.Sprintf("CSV file has more than %d products", MaxImportRows)}
	}

	errs := common.FieldErrors{}
	items := make([]*domain.Product, 0, len(rows))
	for i, row := range rows {
		// header is line 1
		key := fmt.Sprintf("row %d", i+2)
		price, err := decimal.NewFromString(common.IfEmptyStr(strings.TrimSpace(row.Price), "0"))
		form := ProductForm{
			Name:        row.Name,
			Description: row.Description,
			Price:       price,
			Stock:       row.Stock,
			ImageURL:    row.ImageURL,
			Category:    row.Category,
			SerialNo:    row.SerialNo,
		}
		if err != nil {
			errs[key] = "Invalid price"
			continue
		}
		if verr := form.Validate(); verr != nil {
			for field, msg := range verr.(common.FieldErrors) {
				errs[key+"."+field] = msg
			}
			continue
		}
		p := &domain.Product{UserID: userID, StoreID: &store.ID}
		form.apply(p)
		p.IsActive = !strings.EqualFold(strings.TrimSpace(row.IsActive), "false")
		items = append(items, p)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if err := s.products.BulkCreate(ctx, items); err != nil {
		return nil, errors.Wrap(err, "import products")
	}
	zap.L().Info("products imported",
		zap.Int("count", len(items)),
		zap.String("store", store.ID),
		zap.String("namespace", "catalog"))
	for _, p := range items {
		s.publish(events.TopicProductCreated, p, events.SourceImport)
	}
	return items, nil
}
