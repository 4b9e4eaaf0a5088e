package valueobjects

import "fmt"

type Category int

const (
	CategoryDomainPassword  Category = 300
	CategoryAmerikaPassword Category = 400
)

var categoryLabels = map[Category]string{
	CategoryDomainPassword:  "Domain Account Password Change",
	CategoryAmerikaPassword: "Amerika Password Change",
}

func (c Category) Int() int {
	return int(c)
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) IsDomainPassword() bool {
	return c == CategoryDomainPassword
}

func (c Category) IsAmerikaPassword() bool {
	return c == CategoryAmerikaPassword
}

func NewCategory(code int) (Category, error) {
	c := Category(code)
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid category code: %d", code)
	}
	return c, nil
}

// Categories returns the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryDomainPassword, CategoryAmerikaPassword}
}
