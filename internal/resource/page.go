package resource

// Meta is the upstream pagination block.
type Meta struct {
	Total    int `json:"total"`
	PerPage  int `json:"perPage"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
	From     int `json:"from"`
	To       int `json:"to"`
}

type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

type Single[T any] struct {
	Data T `json:"data"`
}
