package domain

import "linkmill/internal/core/catalog"

// SearchInput narrows a catalog listing over HTTP
type SearchInput struct {
	Categories       []string `json:"categories,omitempty" validate:"omitempty,dive,oneof=web2_platform forum directory social wiki docs" example:"web2_platform"`
	MinAuthority     int      `json:"min_authority,omitempty" validate:"omitempty,min=0,max=100" example:"50"`
	MaxDifficulty    string   `json:"max_difficulty,omitempty" validate:"omitempty,oneof=easy medium hard" example:"medium"`
	AnonymousOnly    bool     `json:"anonymous_only,omitempty" example:"true"`
	RequireBacklinks bool     `json:"require_backlinks,omitempty" example:"true"`
}

// Filter converts the wire input to the service filter
func (in SearchInput) Filter() Filter {
	f := Filter{
		MinAuthority:     in.MinAuthority,
		MaxDifficulty:    catalog.Difficulty(in.MaxDifficulty),
		AnonymousOnly:    in.AnonymousOnly,
		RequireBacklinks: in.RequireBacklinks,
	}
	for _, c := range in.Categories {
		f.Categories = append(f.Categories, catalog.Category(c))
	}
	return f
}

// ResolveInput looks a platform up by domain or alias
type ResolveInput struct {
	Ref string `json:"ref" validate:"required,min=1,max=200" example:"write.as"`
}
