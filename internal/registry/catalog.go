// Package registry loads the commercial product catalog from the
// Notion database the sales team maintains.
package registry

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/recommend"
	"github.com/bh-assurance/agent-cli/pkg/notion"
)

// LoadProductCatalog queries the Notion product database for all
// active entries and overlays them on the built-in catalog, so a
// partially filled database still yields a complete product table.
// Malformed pages are logged and skipped.
func LoadProductCatalog(ctx context.Context, client notion.Client, dbID string) (recommend.Catalog, error) {
	filter := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Status",
			Status: &notionapi.StatusFilterCondition{
				Equals: "Active",
			},
		},
	}

	pages, err := notion.QueryAll(ctx, client, dbID, filter)
	if err != nil {
		return nil, eris.Wrap(err, "registry: load product catalog")
	}

	cat := recommend.DefaultCatalog()
	loaded := 0
	for _, p := range pages {
		key, entry, err := parseProductPage(p)
		if err != nil {
			zap.L().Warn("registry: skipping malformed product page",
				zap.String("page_id", string(p.ID)),
				zap.Error(err),
			)
			continue
		}
		cat[key] = entry
		loaded++
	}

	zap.L().Info("registry: product catalog loaded",
		zap.Int("pages", len(pages)),
		zap.Int("entries", loaded),
	)
	return cat, nil
}

func parseProductPage(p notionapi.Page) (string, recommend.Entry, error) {
	var key string
	var e recommend.Entry

	// Product (title)
	if prop, ok := p.Properties["Product"]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			e.Product.Product = plainText(tp.Title)
		}
	}

	// Key (rich_text), matches a rule key in the engine
	if prop, ok := p.Properties["Key"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			key = plainText(rtp.RichText)
		}
	}

	// Branch (select)
	if prop, ok := p.Properties["Branch"]; ok {
		if sp, ok := prop.(*notionapi.SelectProperty); ok {
			e.Product.Branch = sp.Select.Name
		}
	}

	// SubBranch (select)
	if prop, ok := p.Properties["SubBranch"]; ok {
		if sp, ok := prop.(*notionapi.SelectProperty); ok {
			e.Product.SubBranch = sp.Select.Name
		}
	}

	// Priority (number)
	if prop, ok := p.Properties["Priority"]; ok {
		if np, ok := prop.(*notionapi.NumberProperty); ok {
			e.Priority = int(np.Number)
		}
	}

	// Premium (number)
	if prop, ok := p.Properties["Premium"]; ok {
		if np, ok := prop.(*notionapi.NumberProperty); ok {
			e.EstimatedPremium = np.Number
		}
	}

	// Reasoning (rich_text)
	if prop, ok := p.Properties["Reasoning"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			e.Reasoning = plainText(rtp.RichText)
		}
	}

	// TargetProfile (rich_text)
	if prop, ok := p.Properties["TargetProfile"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			e.TargetProfile = plainText(rtp.RichText)
		}
	}

	// Benefit (rich_text)
	if prop, ok := p.Properties["Benefit"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			e.ExpectedBenefit = plainText(rtp.RichText)
		}
	}

	if key == "" {
		return "", e, eris.New("missing Key property")
	}
	if e.Product.Product == "" {
		return "", e, eris.New("missing Product property")
	}
	return key, e, nil
}

// plainText concatenates the plain_text values from a slice of RichText.
func plainText(rts []notionapi.RichText) string {
	var s string
	for _, rt := range rts {
		s += rt.PlainText
	}
	return s
}
