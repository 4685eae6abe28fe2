package web

import (
	"net/url"
	"strconv"
	"time"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"
	"accommodation_portal/internal/web/flash"
	"accommodation_portal/pkg/apperrors"
)

// Page is the data every template receives. Data carries the page's own values.
type Page struct {
	Title         string
	Path          string
	User          *models.User
	Nav           []navigation.Item
	Breadcrumb    string
	Footer        []navigation.Link
	Flash         *flash.Notice
	Alert         string
	Error         *apperrors.AppError
	UnreadCount   int64
	Notifications []models.Notification
	Errors        map[string]string
	Form          any
	Data          map[string]any
	Year          int
}

// NewPage fills the chrome (navigation, footer, breadcrumb) for user at path.
func NewPage(title, path string, user *models.User) *Page {
	p := &Page{
		Title: title,
		Path:  path,
		User:  user,
		Data:  map[string]any{},
		Year:  time.Now().Year(),
	}
	if user != nil {
		p.Nav = navigation.Items(user.Role)
		p.Footer = navigation.FooterLinks(user.Role)
		p.Breadcrumb = navigation.Breadcrumb(user.Role, path, title)
	}
	return p
}

func (p *Page) With(key string, value any) *Page {
	p.Data[key] = value
	return p
}

// HasErrors reports whether any inline field error is present.
func (p *Page) HasErrors() bool {
	return len(p.Errors) > 0
}

// Pager links to the neighbouring pages of a backend list.
type Pager struct {
	Page     int
	Previous string
	Next     string
}

// NewPager rewrites the page parameter of current. It returns nil when there is
// nowhere to go.
func NewPager(current *url.URL, page int, hasPrevious, hasNext bool) *Pager {
	if page < 1 {
		page = 1
	}
	if !hasNext && (!hasPrevious || page == 1) {
		return nil
	}
	link := func(n int) string {
		q := current.Query()
		q.Set("page", strconv.Itoa(n))
		return current.Path + "?" + q.Encode()
	}
	p := &Pager{Page: page}
	if hasPrevious && page > 1 {
		p.Previous = link(page - 1)
	}
	if hasNext {
		p.Next = link(page + 1)
	}
	return p
}
