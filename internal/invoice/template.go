// Package invoice models the configurable layout used to render client invoices.
package invoice

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldCurrency FieldType = "currency"
	FieldDate     FieldType = "date"
)

type FieldConfig struct {
	Key      string    `json:"key" validate:"required,fieldkey"`
	Label    string    `json:"label" validate:"required,max=80"`
	Type     FieldType `json:"type" validate:"required,oneof=text textarea number currency date"`
	Required bool      `json:"required"`
	Visible  bool      `json:"visible"`
}

type SectionConfig struct {
	Key     string        `json:"key" validate:"required,fieldkey"`
	Title   string        `json:"title" validate:"required,max=80"`
	Visible bool          `json:"visible"`
	Fields  []FieldConfig `json:"fields" validate:"required,min=1,unique=Key,dive"`
}

type ThemeConfig struct {
	PrimaryColor string `json:"primary_color" validate:"required,hexcolor"`
	AccentColor  string `json:"accent_color" validate:"required,hexcolor"`
	FontFamily   string `json:"font_family" validate:"required,max=64"`
	LogoURL      string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type Template struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Currency string          `json:"currency" validate:"required,iso4217"`
	Theme    ThemeConfig     `json:"theme"`
	Sections []SectionConfig `json:"sections" validate:"required,min=1,unique=Key,dive"`
}

// Field returns the field with key from any section.
func (t Template) Field(key string) (FieldConfig, bool) {
	for _, s := range t.Sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return FieldConfig{}, false
}

// Default is the layout new clients start from.
func Default() Template {
	return Template{
		Name:     "Standard",
		Currency: "USD",
		Theme: ThemeConfig{
			PrimaryColor: "#1F2937",
			AccentColor:  "#2563EB",
			FontFamily:   "Inter",
		},
		Sections: []SectionConfig{
			{
				Key: "header", Title: "Invoice", Visible: true,
				Fields: []FieldConfig{
					{Key: "invoice_number", Label: "Invoice #", Type: FieldText, Required: true, Visible: true},
					{Key: "issue_date", Label: "Issue date", Type: FieldDate, Required: true, Visible: true},
					{Key: "due_date", Label: "Due date", Type: FieldDate, Visible: true},
				},
			},
			{
				Key: "bill_to", Title: "Bill to", Visible: true,
				Fields: []FieldConfig{
					{Key: "client_name", Label: "Client", Type: FieldText, Required: true, Visible: true},
					{Key: "client_address", Label: "Address", Type: FieldTextarea, Visible: true},
				},
			},
			{
				Key: "line_items", Title: "Services", Visible: true,
				Fields: []FieldConfig{
					{Key: "description", Label: "Description", Type: FieldText, Required: true, Visible: true},
					{Key: "hours", Label: "Hours", Type: FieldNumber, Required: true, Visible: true},
					{Key: "rate", Label: "Rate", Type: FieldCurrency, Required: true, Visible: true},
					{Key: "amount", Label: "Amount", Type: FieldCurrency, Required: true, Visible: true},
				},
			},
			{
				Key: "summary", Title: "Summary", Visible: true,
				Fields: []FieldConfig{
					{Key: "subtotal", Label: "Subtotal", Type: FieldCurrency, Visible: true},
					{Key: "tax", Label: "Tax", Type: FieldCurrency, Visible: true},
					{Key: "total", Label: "Total", Type: FieldCurrency, Required: true, Visible: true},
				},
			},
			{
				Key: "notes", Title: "Notes",
				Fields: []FieldConfig{
					{Key: "notes", Label: "Notes", Type: FieldTextarea, Visible: true},
				},
			},
		},
	}
}
