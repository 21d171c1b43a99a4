package inventory

import (
	"context"
	"sort"

	"campusctl/core/controller"
	"campusctl/core/reconcile"

	"go.uber.org/zap"
)

// SiteInventory groups the devices managed under a single site.
type SiteInventory struct {
	Site    controller.Object   `json:"site"`
	Devices []controller.Object `json:"devices"`
}

// Lookup is the outcome of resolving a selector against the controller.
type Lookup struct {
	Found  bool              `json:"found"`
	ID     string            `json:"id,omitempty"`
	Object controller.Object `json:"object,omitempty"`
}

// Service reads the controller inventory.
type Service struct {
	client controller.Client
	logger *zap.Logger
}

// NewService creates a new inventory service.
func NewService(client controller.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Sites returns every site known to the controller.
func (s *Service) Sites(ctx context.Context) ([]controller.Object, error) {
	return s.client.ListAll(ctx, controller.KindSite, nil)
}

// Devices returns devices, optionally restricted to a single site.
func (s *Service) Devices(ctx context.Context, siteID string) ([]controller.Object, error) {
	var filters map[string]string
	if siteID != "" {
		filters = map[string]string{"siteId": siteID}
	}
	return s.client.ListAll(ctx, controller.KindDevice, filters)
}

// Lookup resolves a selector to at most one object. An ambiguous selector
// is an error, a selector matching nothing reports Found false.
func (s *Service) Lookup(ctx context.Context, kind controller.Kind, selector reconcile.Selector) (Lookup, error) {
	resolved, err := reconcile.Resolve(ctx, s.client, kind, selector, "")
	if err != nil {
		return Lookup{}, err
	}
	if resolved == nil {
		return Lookup{}, nil
	}
	return Lookup{
		Found:  true,
		ID:     resolved.ID,
		Object: resolved.Props,
	}, nil
}

// Inventory returns every site together with its devices. Devices that
// reference no known site are grouped under an empty site entry.
func (s *Service) Inventory(ctx context.Context) ([]SiteInventory, error) {
	sites, err := s.Sites(ctx)
	if err != nil {
		return nil, err
	}
	devices, err := s.Devices(ctx, "")
	if err != nil {
		return nil, err
	}

	bySite := make(map[string][]controller.Object)
	for _, d := range devices {
		siteID, _ := d["siteId"].(string)
		bySite[siteID] = append(bySite[siteID], d)
	}

	out := make([]SiteInventory, 0, len(sites))
	for _, site := range sites {
		id := site.ID()
		out = append(out, SiteInventory{
			Site:    site,
			Devices: bySite[id],
		})
		delete(bySite, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Site.Name() < out[j].Site.Name()
	})

	// Orphans last, so they are visible instead of silently dropped.
	if len(bySite) > 0 {
		var orphans []controller.Object
		for _, ds := range bySite {
			orphans = append(orphans, ds...)
		}
		sort.Slice(orphans, func(i, j int) bool {
			return orphans[i].Name() < orphans[j].Name()
		})
		s.logger.Warn("Devices reference unknown sites", zap.Int("count", len(orphans)))
		out = append(out, SiteInventory{Site: controller.Object{}, Devices: orphans})
	}

	return out, nil
}
