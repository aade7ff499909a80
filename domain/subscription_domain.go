package domain

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
)

// SubscriptionResponse is a followed author together with a capped preview
// of their recipes and the full recipe count.
type SubscriptionResponse struct {
	ID           string                  `json:"id"`
	Email        string                  `json:"email"`
	Username     string                  `json:"username"`
	FirstName    string                  `json:"first_name"`
	LastName     string                  `json:"last_name"`
	IsSubscribed bool                    `json:"is_subscribed"`
	Recipes      []RecipeCompactResponse `json:"recipes"`
	RecipesCount int64                   `json:"recipes_count"`
}
