package domain

// MenuNode is one entry in the navigation menu tree. Collection nodes embed a
// summary of their products; the embedded list may be shorter than
// ProductCount, in which case the collection is only partially known.
//
// The tree is trusted to be acyclic; it comes from a configured menu document,
// not from user input.
type MenuNode struct {
	Label        string     `json:"label"`
	URL          string     `json:"url"`
	IsCollection bool       `json:"isCollection"`
	Title        string     `json:"title,omitempty"`
	ProductCount int        `json:"productCount,omitempty"`
	Products     []string   `json:"products,omitempty"`
	Children     []MenuNode `json:"children,omitempty"`
}
