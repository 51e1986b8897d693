package apiserver

import (
	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/handler"
	"github.com/amoylab/tenantly/internal/apiserver/middleware"
	"github.com/amoylab/tenantly/internal/apiserver/tenancy"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// APIPrefixes are the mount points of the API; the path prefixes also select the tenant
var APIPrefixes = []string{"/api", "/t/:tenant/api", "/tenant/:tenant/api"}

// RouterDeps groups what NewRouter wires together
type RouterDeps struct {
	Config   *config.APIServerConfig
	Handler  *handler.Handler
	Resolver *tenancy.Resolver
	Users    middleware.UserResolver
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewRouter wires Gin routes and middleware
func NewRouter(d RouterDeps) *gin.Engine {
	cfg, h := d.Config, d.Handler
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recovery(d.Logger))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/", h.Index)
	r.NoRoute(h.NotFound)

	for _, prefix := range APIPrefixes {
		registerAPI(r.Group(prefix, middleware.Tenant(d.Resolver)), d)
	}
	return r
}

func registerAPI(api *gin.RouterGroup, d RouterDeps) {
	cfg, h := d.Config, d.Handler
	authRequired := middleware.Auth(d.Users, cfg.Cookie.Name, true)

	api.GET("/health", h.Health)
	api.GET("/openapi.json", h.OpenAPI)
	api.GET("/themes/current.css", h.CurrentThemeCSS)

	tenants := api.Group("/tenants")
	{
		tenants.GET("", middleware.RequireTenant(), authRequired, middleware.RequireRole(database.RoleAdmin), h.ListTenants)
		tenants.GET("/me", h.CurrentTenant)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RequireTenant(), h.Register)
		auth.POST("/login", middleware.RequireTenant(), h.Login)
		auth.GET("/me", authRequired, h.Me)
		auth.POST("/logout", h.Logout)
	}

	resources := api.Group("/resources", middleware.RequireTenant())
	{
		authConfigured := middleware.Auth(d.Users, cfg.Cookie.Name, cfg.Resources.RequireAuth)
		resources.GET("", authConfigured, h.ListResources)
		resources.POST("", authConfigured, h.CreateResource)
		resources.GET("/:id", authConfigured, h.GetResource)
		// updates always need a signed-in user of the tenant
		resources.PUT("/:id", authRequired, h.UpdateResource)
	}

	users := api.Group("/users", middleware.RequireTenant(), authRequired)
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}
