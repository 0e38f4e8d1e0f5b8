package vo

type Markdown string

type Image struct {
	ID              int64  `json:"id"`              // CMS internal numeric id
	DocumentID      string `json:"documentId"`      // Public document id, separate namespace from ID
	URL             string `json:"url"`             // Resource locator of the asset
	AlternativeText string `json:"alternativeText"` // May be empty
}

type Logo struct {
	ID       int64  `json:"id"`
	LogoText string `json:"logoText"` // Display label
	LogoLink string `json:"logoLink"` // Target when the logo is clicked
	Image    Image  `json:"image"`
}

type Link struct {
	Href         string             `json:"href"`
	Label        Optional[string]   `json:"label,omitzero"`
	IsExternal   Optional[bool]     `json:"isExternal,omitzero"`
	IsButtonLink Optional[bool]     `json:"isButtonLink,omitzero"`
	Type         Optional[LinkType] `json:"type,omitzero"`
}

type GlobalPageHeader struct {
	Logo     Logo   `json:"logo"`
	NavItems []Link `json:"navItems"` // Rendered in order
	Cta      Link   `json:"cta"`
}

type GlobalPageFooter struct {
	Logo        Logo   `json:"logo"`
	NavItems    []Link `json:"navItems"`
	SocialLinks []Logo `json:"socialLinks"`
	Text        string `json:"text"` // Usually the copyright line
}

// GlobalPage bundles both page chrome aggregates of a site.
type GlobalPage struct {
	Header GlobalPageHeader `json:"header"`
	Footer GlobalPageFooter `json:"footer"`
}

// ValidationIssue is the serializable form of a single validation failure.
type ValidationIssue struct {
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Allowed  []string `json:"allowed,omitempty"`
}
