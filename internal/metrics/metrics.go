package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecipesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foodgram_recipes_created_total",
		Help: "Number of recipes created.",
	})

	FavoriteToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_favorite_toggles_total",
		Help: "Favorite additions and removals.",
	}, []string{"action"})

	FollowRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_follow_requests_total",
		Help: "Subscribe and unsubscribe requests.",
	}, []string{"action"})

	ShoppingListDownloads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foodgram_shopping_list_downloads_total",
		Help: "Number of shopping list downloads.",
	})
)

func InitMetrics() {
	prometheus.MustRegister(
		RecipesCreated,
		FavoriteToggles,
		FollowRequests,
		ShoppingListDownloads,
	)
}

// Handler exposes the prometheus registry through fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
