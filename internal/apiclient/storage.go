package apiclient

// Storage keys shared by the client and the services.
const (
	TokenKey        = "token"
	RefreshTokenKey = "refreshToken"
	UserKey         = "user"
)

// LoginPath is where the browser is sent when the backend rejects the stored credentials.
const LoginPath = "/auth/login"

// Storage is the per-browser key/value store holding credentials.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// Navigator asks the browser to go to another page once the current request finishes.
type Navigator interface {
	Navigate(path string)
}

type nopStorage struct{}

func (nopStorage) GetItem(string) (string, bool) { return "", false }
func (nopStorage) SetItem(string, string)        {}
func (nopStorage) RemoveItem(string)             {}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
