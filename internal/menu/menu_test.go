package menu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/backend"
)

const chaatMenu = `menuVersion: v1
currency: INR
sections:
- name: Chaat
  items:
  - name: Pani Puri
    description: "Six crisp puris with spiced water."
    price: "40.00"
    veg: true
  - name: Bhel Puri
    price: "50"
    veg: true
    tags:
    - bestseller
- name: Drinks
  items:
  - name: Masala Chaas
    price: "30.00"
    veg: true
    soldOut: true
`

const menuWithoutVersion = `sections:
- name: Chaat
  items:
  - name: Pani Puri
    price: "40.00"
    veg: true
`

const menuWithoutSections = `menuVersion: v1
`

const menuWithBadPrice = `menuVersion: v1
sections:
- name: Chaat
  items:
  - name: Pani Puri
    price: "forty"
    veg: true
`

const menuWithZeroPrice = `menuVersion: v1
sections:
- name: Chaat
  items:
  - name: Pani Puri
    price: "0"
    veg: true
`

const menuWithEmptyItemName = `menuVersion: v1
sections:
- name: Chaat
  items:
  - name: ""
    price: "40.00"
    veg: true
`

const menuWithDuplicateItems = `menuVersion: v1
sections:
- name: Chaat
  items:
  - name: Pani Puri
    price: "40.00"
    veg: true
  - name: Pani Puri
    price: "45.00"
    veg: true
`

const menuWithDuplicateSections = `menuVersion: v1
sections:
- name: Chaat
  items:
  - name: Pani Puri
    price: "40.00"
    veg: true
- name: Chaat
  items:
  - name: Bhel Puri
    price: "50.00"
    veg: true
`

func TestParseMenuConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     string
		wantErr bool
	}{
		{"full menu", chaatMenu, false},
		{"missing version", menuWithoutVersion, true},
		{"missing sections", menuWithoutSections, true},
		{"non-numeric price", menuWithBadPrice, true},
		{"zero price", menuWithZeroPrice, true},
		{"empty item name", menuWithEmptyItemName, true},
		{"duplicate item in section", menuWithDuplicateItems, true},
		{"duplicate section name", menuWithDuplicateSections, true},
	}

	for _, test := range testCases {
		cfg, err := ParseMenuConfig([]byte(test.cfg))
		if test.wantErr {
			assert.Error(t, err, test.name)
			assert.Nil(t, cfg, test.name)
		} else {
			assert.NoError(t, err, test.name)
			assert.NotNil(t, cfg, test.name)
		}
	}
}

func TestParseMenuConfigRejectsMalformedYAML(t *testing.T) {
	cfg, err := ParseMenuConfig([]byte("sections: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parsing error")
}

func TestCheckItemBudget(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("menuVersion: v1\nsections:\n- name: Everything\n  items:\n")
	for i := 0; i < MaxMenuItems+1; i++ {
		sb.WriteString(fmt.Sprintf("  - name: Item %d\n    price: \"10.00\"\n    veg: true\n", i))
	}

	cfg, err := ParseMenuConfig([]byte(sb.String()))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "maximum")
}

func TestToPayloadAssignsStableIDs(t *testing.T) {
	cfg, err := ParseMenuConfig([]byte(chaatMenu))
	require.NoError(t, err)

	payload := ToPayload("vendor-7", cfg)
	require.Len(t, payload.Sections, 2)

	first := payload.Sections[0].Items[0]
	assert.Equal(t, "Pani Puri", first.Name)
	assert.Len(t, first.ID, 8)

	// same input, same id
	again := ToPayload("vendor-7", cfg)
	assert.Equal(t, first.ID, again.Sections[0].Items[0].ID)

	// different vendor, different id
	other := ToPayload("vendor-8", cfg)
	assert.NotEqual(t, first.ID, other.Sections[0].Items[0].ID)
}

func TestBuildPublicView(t *testing.T) {
	payload := &backend.MenuPayload{
		VendorID: "vendor-7",
		Sections: []backend.MenuSection{
			{
				Name: "Chaat",
				Items: []backend.MenuItem{
					{ID: "a1", Name: "Pani Puri", Price: "40.00", Veg: true},
					{ID: "a2", Name: "Chicken Roll", Price: "90.00", Veg: false, SoldOut: true},
				},
			},
			{Name: "Empty Section"},
		},
	}

	view := BuildPublicView(payload)

	assert.Equal(t, "vendor-7", view.VendorID)
	assert.Equal(t, "INR", view.Currency)
	assert.Equal(t, 2, view.ItemCount)
	require.Len(t, view.Sections, 1, "empty sections are dropped")
	assert.True(t, view.Sections[0].Items[1].SoldOut, "sold-out items stay visible")
}

func TestPublicLink(t *testing.T) {
	link := PublicLink("vendor-7", "t12")
	assert.Contains(t, link, "/menu/vendor-7")
	assert.Contains(t, link, "table=t12")
}
