package domain

const (
	DefaultRapidAPIUser         = "anonymous"
	DefaultRapidAPISubscription = "free"
)

// RapidAPIContext данные маркетплейса для одного запроса
// Живёт только в рамках запроса и передаётся обработчику явным параметром
type RapidAPIContext struct {
	User         string `json:"user"`
	Subscription string `json:"subscription"`
	ProxySecret  string `json:"-"`
}

// NewRapidAPIContext собирает контекст, подставляя значения по умолчанию
func NewRapidAPIContext(user, subscription, proxySecret string) *RapidAPIContext {
	if user == "" {
		user = DefaultRapidAPIUser
	}
	if subscription == "" {
		subscription = DefaultRapidAPISubscription
	}

	return &RapidAPIContext{
		User:         user,
		Subscription: subscription,
		ProxySecret:  proxySecret,
	}
}

// HasSubscription проверяет, входит ли тариф в разрешённый список
func (c *RapidAPIContext) HasSubscription(allowed []string) bool {
	if c == nil {
		return false
	}
	for _, tier := range allowed {
		if tier == c.Subscription {
			return true
		}
	}
	return false
}
