package menu

// MenuConfig is the vendor-authored menu.yaml. Validation rules live in the
// vd tags; cross-item checks are imperative.
type MenuConfig struct {
	ConfigVersion string          `yaml:"menuVersion" json:"menuVersion" vd:"len($)>0;msg:sprintf('invalid parameter: %v;menuVersion must satisfy the expr: len($)>0',$)"`
	Currency      string          `yaml:"currency,omitempty" json:"currency,omitempty" vd:"-"`
	Sections      []SectionConfig `yaml:"sections" json:"sections" vd:"len($)>0 && len($)<=30;msg:sprintf('invalid parameter: %v;sections must satisfy the expr: len($)>0 && len($)<=30',$)"`
}

type SectionConfig struct {
	Name  string       `yaml:"name" json:"name" vd:"len($)>0 && len($)<=50;msg:sprintf('invalid parameter: %v;name must satisfy the expr: len($)>0 && len($)<=50',$)"`
	Items []ItemConfig `yaml:"items" json:"items" vd:"len($)>0;msg:sprintf('invalid parameter: %v;items must satisfy the expr: len($)>0',$)"`
}

type ItemConfig struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty" vd:"-"`
	Name        string   `yaml:"name" json:"name" vd:"len($)>0 && len($)<=100;msg:sprintf('invalid parameter: %v;name must satisfy the expr: len($)>0 && len($)<=100',$)"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" vd:"len($)<=500;msg:sprintf('invalid parameter: %v;description must satisfy the expr: len($)<=500',$)"`
	Price       string   `yaml:"price" json:"price" vd:"regexp('^\\d+(\\.\\d{1,2})?$') && $!='0';msg:sprintf('invalid parameter: %v;price must satisfy the expr: regexp(^\\d+(\\.\\d{1,2})?$)',$)"`
	Veg         bool     `yaml:"veg" json:"veg"`
	SoldOut     bool     `yaml:"soldOut,omitempty" json:"soldOut,omitempty" vd:"-"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// PublicItem is what the customer-facing menu page renders.
type PublicItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price"`
	Veg         bool     `json:"veg"`
	SoldOut     bool     `json:"sold_out"`
	Tags        []string `json:"tags,omitempty"`
}

type PublicSection struct {
	Name  string       `json:"name"`
	Items []PublicItem `json:"items"`
}

type PublicMenu struct {
	VendorID  string          `json:"vendor_id"`
	Currency  string          `json:"currency"`
	Sections  []PublicSection `json:"sections"`
	ItemCount int             `json:"item_count"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}
