package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"bbt/exporter/internal/domain"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"
)

const defaultRoot = "catalogue"

type Writer struct {
	template string
	items    []domain.CatalogueItem
}

// NewWriter creates a feed writer. A non-empty template names an XML file
// whose root element receives the <shopitem> children.
func NewWriter(template string) *Writer {
	return &Writer{template: template}
}

func (w *Writer) Add(items ...domain.CatalogueItem) {
	w.items = append(w.items, items...)
}

func (w *Writer) Len() int {
	return len(w.items)
}

// Document builds the feed from every item added so far
func (w *Writer) Document() (*etree.Document, error) {
	doc := etree.NewDocument()
	if w.template != "" {
		if err := doc.ReadFromFile(w.template); err != nil {
			return nil, fmt.Errorf("failed to read feed template %s: %w", w.template, err)
		}
	}

	root := doc.Root()
	if root == nil {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root = doc.CreateElement(defaultRoot)
	}

	for _, item := range w.items {
		appendItem(root, item)
	}

	doc.Indent(2)
	return doc, nil
}

// Flush writes the feed to path. The file is replaced atomically so a failed
// write never leaves a partial document behind.
func (w *Writer) Flush(path string) error {
	doc, err := w.Document()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary feed file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set feed file mode: %w", err)
	}

	if _, err := doc.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close feed file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move feed into place: %w", err)
	}

	log.Infof("Wrote %d items to %s", len(w.items), path)
	return nil
}

func appendItem(root *etree.Element, item domain.CatalogueItem) {
	shopItem := root.CreateElement("shopitem")
	shopItem.CreateAttr("id", item.ID)
	shopItem.CreateAttr("name", item.Name)
	shopItem.CreateAttr("description", item.Description)
	shopItem.CreateAttr("manufacturer", item.Manufacturer)
	shopItem.CreateAttr("url", item.URL)
	shopItem.CreateAttr("imgurl", item.ImageURL)

	pkg := shopItem.CreateElement("package")
	pkg.CreateAttr("id", item.Package.ID)
	pkg.CreateAttr("count", strconv.Itoa(item.Package.Count))
	pkg.CreateAttr("price", item.Package.Price.String())
	// VAT as a fraction, e.g. 0.21
	pkg.CreateAttr("vat", item.Package.Vat.String())

	for _, category := range item.Categories {
		shopItem.CreateElement("category").CreateAttr("name", category.Name)
	}
}
