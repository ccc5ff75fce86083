package menu

import (
	"fmt"
	"sync"
	"time"

	vd "github.com/bytedance/go-tagexpr/v2/validator"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"foodcourt/internal/backend"
	"foodcourt/internal/conf"
	"foodcourt/internal/constants"
	"foodcourt/internal/redisdb"
	"foodcourt/pkg/utils"
)

func init() {
	vd.SetErrorFactory(func(failPath, msg string) error {
		return fmt.Errorf(`"validation failed: %s","msg": "%s"`, failPath, msg)
	})
}

// MaxMenuItems caps one vendor menu across all sections.
const MaxMenuItems = 200

// memory fallback for sandbox runs without Redis
var (
	memCacheMu sync.Mutex
	memCache   = make(map[string]memEntry)
)

type memEntry struct {
	raw     string
	expires time.Time
}

// ParseMenuConfig parses and validates one menu.yaml document.
func ParseMenuConfig(data []byte) (*MenuConfig, error) {
	var cfg MenuConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		glog.Warningf("YAML parsing failed, error message: %v", err)
		return nil, fmt.Errorf("menu file parsing error: %w", err)
	}

	if err := checkMenuCfg(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func checkMenuCfg(cfg *MenuConfig) error {
	err := vd.Validate(cfg)
	if err != nil {
		return err
	}
	err = CheckItemBudget(cfg)
	if err != nil {
		return err
	}
	return CheckDuplicateItems(cfg)
}

// CheckItemBudget rejects menus above the item cap.
func CheckItemBudget(cfg *MenuConfig) error {
	total := 0
	for _, section := range cfg.Sections {
		total += len(section.Items)
	}
	if total > MaxMenuItems {
		return fmt.Errorf("menu has %d items, the maximum is %d", total, MaxMenuItems)
	}
	return nil
}

// CheckDuplicateItems rejects repeated item names within a section and
// repeated section names.
func CheckDuplicateItems(cfg *MenuConfig) error {
	sectionNames := make(map[string]struct{})
	for i, section := range cfg.Sections {
		if _, ok := sectionNames[section.Name]; ok {
			return fmt.Errorf("sections:[%d] name has replicated", i)
		}
		sectionNames[section.Name] = struct{}{}

		itemNames := make(map[string]struct{})
		for j, item := range section.Items {
			if _, ok := itemNames[item.Name]; ok {
				return fmt.Errorf("section %s items:[%d] name has replicated", section.Name, j)
			}
			itemNames[item.Name] = struct{}{}
		}
	}
	return nil
}

// ToPayload converts a validated menu config into the core API shape. Items
// without an explicit id get a stable one derived from the vendor and name.
func ToPayload(vendorID string, cfg *MenuConfig) *backend.MenuPayload {
	payload := &backend.MenuPayload{
		VendorID: vendorID,
	}
	for _, section := range cfg.Sections {
		out := backend.MenuSection{Name: section.Name}
		for _, item := range section.Items {
			id := item.ID
			if id == "" {
				id = utils.Md5String(vendorID + ":" + item.Name)[:8]
			}
			out.Items = append(out.Items, backend.MenuItem{
				ID:          id,
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Veg:         item.Veg,
				SoldOut:     item.SoldOut,
				Tags:        item.Tags,
			})
		}
		payload.Sections = append(payload.Sections, out)
	}
	return payload
}

// Import validates a vendor's menu.yaml and pushes it to the core API. The
// cached copy is dropped so the next public fetch sees the new menu.
func Import(vendorID, token string, data []byte) (*backend.MenuPayload, error) {
	cfg, err := ParseMenuConfig(data)
	if err != nil {
		return nil, err
	}

	payload := ToPayload(vendorID, cfg)
	if _, err := backend.PushMenu(vendorID, token, payload); err != nil {
		glog.Warningf("push menu for vendor %s failed: %s", vendorID, err.Error())
		return nil, err
	}

	dropCached(vendorID)
	return payload, nil
}

// FetchVendorMenu returns the vendor menu, serving the cache when it is warm.
func FetchVendorMenu(vendorID, token string) (*backend.MenuPayload, error) {
	if raw, ok := getCached(vendorID); ok {
		return backend.ParseMenu(raw)
	}

	raw, err := backend.FetchMenu(vendorID, token)
	if err != nil {
		return nil, err
	}

	payload, err := backend.ParseMenu(raw)
	if err != nil {
		return nil, err
	}

	setCached(vendorID, raw)
	return payload, nil
}

// BuildPublicView shapes a menu payload for the customer page. Sold-out items
// stay visible with the flag set; empty sections are dropped.
func BuildPublicView(payload *backend.MenuPayload) *PublicMenu {
	view := &PublicMenu{
		VendorID:  payload.VendorID,
		Currency:  "INR",
		UpdatedAt: payload.UpdatedAt,
	}

	for _, section := range payload.Sections {
		if len(section.Items) == 0 {
			continue
		}
		out := PublicSection{Name: section.Name}
		for _, item := range section.Items {
			out.Items = append(out.Items, PublicItem{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Veg:         item.Veg,
				SoldOut:     item.SoldOut,
				Tags:        item.Tags,
			})
			view.ItemCount++
		}
		view.Sections = append(view.Sections, out)
	}

	return view
}

// PublicLink builds the canonical customer menu URL for a vendor table.
func PublicLink(vendorID, tableID string) string {
	return fmt.Sprintf(constants.PublicMenuURLTempl, conf.GetPublicHost(), vendorID, tableID)
}

func getCached(vendorID string) (string, bool) {
	if redisdb.Initialized() {
		return redisdb.GetCachedMenu(vendorID)
	}

	memCacheMu.Lock()
	defer memCacheMu.Unlock()
	entry, ok := memCache[vendorID]
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.raw, true
}

func setCached(vendorID, raw string) {
	if redisdb.Initialized() {
		if err := redisdb.SetCachedMenu(vendorID, raw); err != nil {
			glog.Warningf("cache menu for vendor %s failed: %s", vendorID, err.Error())
		}
		return
	}

	memCacheMu.Lock()
	defer memCacheMu.Unlock()
	memCache[vendorID] = memEntry{raw: raw, expires: time.Now().Add(5 * time.Minute)}
}

func dropCached(vendorID string) {
	if redisdb.Initialized() {
		if err := redisdb.DropCachedMenu(vendorID); err != nil {
			glog.Warningf("drop cached menu for vendor %s failed: %s", vendorID, err.Error())
		}
		return
	}

	memCacheMu.Lock()
	defer memCacheMu.Unlock()
	delete(memCache, vendorID)
}
