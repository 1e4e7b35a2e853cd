// config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds the location of the SQLite database file.
type DatabaseConfig struct {
	File string `yaml:"file"`
}

// PIMConfig configures the delimited-text feed loads: which columns form the
// natural key of each category table, and per-category header renames applied
// before the schema is derived (some exports ship template-specific labels).
type PIMConfig struct {
	UniqueKeys map[string][]string          `yaml:"unique_keys"`
	HeaderMaps map[string]map[string]string `yaml:"header_maps"`
}

// HybrisConfig configures the status workbook load.
type HybrisConfig struct {
	UniqueKeys map[string][]string `yaml:"unique_keys"`
}

// FieldSpec is one expected column of a templated sheet, in template order.
type FieldSpec struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
}

// StartRows gives the 1-based row numbers where a templated sheet's header
// and data begin. Templates put titles and instructions above the table.
type StartRows struct {
	Header int `yaml:"header"`
	Data   int `yaml:"data"`
}

// DocConfig is the sheet-layout template metadata for DoC request workbooks.
// FileSheets maps a case-insensitive file-name prefix to the sheets to import
// from files matching it; SheetFields and StartRows are keyed by lower-cased
// sheet title. DatasetTables maps each resulting table to the column counted
// when listing datasets.
type DocConfig struct {
	FileSheets    map[string][]string    `yaml:"file_sheets"`
	SheetFields   map[string][]FieldSpec `yaml:"sheet_fields"`
	StartRows     map[string]StartRows   `yaml:"start_rows"`
	UniqueKeys    map[string][]string    `yaml:"unique_keys"`
	DatasetTables map[string]string      `yaml:"dataset_tables"`
}

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	PIM      PIMConfig      `yaml:"pim"`
	Hybris   HybrisConfig   `yaml:"hybris"`
	Doc      DocConfig      `yaml:"doc"`
}

// Default returns the built-in configuration: the standard PIM export
// categories with their natural keys, the item_texts header renames, and the
// DoC template layout. A config file overrides any of it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{File: "pim_item_analysis.db"},
		PIM: PIMConfig{
			UniqueKeys: map[string][]string{
				"item_availability": {"export_date", "Item no."},
				"item_classification": {
					"export_date",
					"Item no.",
					"Structure.Identifier",
					"Structure group.Structure group identifier",
				},
				"item_pricing": {"export_date", "Item no.", "Condition record no."},
				"product_availability": {"export_date", "Product no."},
				"product_classification": {
					"export_date",
					"Product no.",
					"Structure.Identifier",
					"Structure group.Structure group identifier",
				},
			},
			HeaderMaps: map[string]map[string]string{
				"item_texts": {
					"Item.Item no.": "Item no.",
					"SKU":           "SKU",
					"Language-specific data.Language":               "Language",
					"Language-specific data.Item Name":              "Item Name",
					"Language-specific data.Item Short Description": "Item Short Description",
					"Language-specific data.Item Long description":  "Item Long description",
				},
			},
		},
		Hybris: HybrisConfig{
			UniqueKeys: map[string][]string{
				"skus_status": {"export_date", "Item no."},
			},
		},
		Doc: DocConfig{
			FileSheets: map[string][]string{
				"doc documentation": {"doc cert data template", "doc sku data template"},
				"sku list":          {"sku list complete translation"},
				"pim sku":           {"pim sku load"},
			},
			SheetFields: map[string][]FieldSpec{
				"doc cert data template": {
					{Name: "CERTIFICATION_NUMBER", Required: true},
					{Name: "CERTIFICATE_NAME", Required: true},
					{Name: "CERTIFICATION_TYPE", Required: false},
					{Name: "ISSUE_DATE", Required: false},
					{Name: "EXPIRY_DATE", Required: false},
					{Name: "STATUS", Required: false},
				},
				"doc sku data template": {
					{Name: "ITEM_CODE", Required: true},
					{Name: "CERTIFICATION_NUMBER", Required: true},
					{Name: "SKU_DESCRIPTION", Required: false},
					{Name: "MARKET", Required: false},
				},
				"sku list complete translation": {
					{Name: "Item No.", Required: true},
					{Name: "Language", Required: false},
					{Name: "Translation", Required: false},
				},
				"pim sku load": {
					{Name: "Item No.", Required: true},
					{Name: "SKU", Required: false},
					{Name: "Status", Required: false},
				},
			},
			StartRows: map[string]StartRows{
				"doc cert data template":        {Header: 1, Data: 2},
				"doc sku data template":         {Header: 1, Data: 2},
				"sku list complete translation": {Header: 1, Data: 2},
				"pim sku load":                  {Header: 1, Data: 2},
			},
			UniqueKeys: map[string][]string{},
			DatasetTables: map[string]string{
				"doc_cert_data_template":        "CERTIFICATION_NUMBER",
				"doc_sku_data_template":         "ITEM_CODE",
				"sku_list_complete_translation": "Item No.",
				"pim_sku_load":                  "Item No.",
			},
		},
	}
}

// LoadConfig reads configuration from a YAML file, layered over the defaults.
// An empty path probes the standard locations and falls back to pure defaults
// when no file is found.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"pimload.yaml", "config/pimload.yaml"} {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return cfg, nil
		}
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
