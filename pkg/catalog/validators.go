package catalog

type ListCatalogQuery struct {
	Sort   string `query:"sort" json:"sort" default:"title"`
	Search string `query:"q" json:"q" mod:"trim"`
}
