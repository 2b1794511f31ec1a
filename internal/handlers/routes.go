package handlers

import (
	"github.com/labstack/echo/v4"

	"formrelay/internal/pages"
)

// Register mounts the service routes on e.
func Register(e *echo.Echo, reg *pages.Registry, validator Validator, subs Submissions) {
	e.GET("/alivez", Alivez())

	v1 := e.Group("/v1")
	v1.POST("/serialize", Serialize())
	v1.POST("/serialize/html", SerializeHTML())
	v1.GET("/pages", ListPages(reg))
	v1.POST("/pages/:name/submit", SubmitPage(reg, validator, subs))
	v1.GET("/submissions", ListSubmissions(subs))
	v1.GET("/submissions/:id", GetSubmission(subs))
}

// RegisterValidationService mounts the demo form validation routes on e.
func RegisterValidationService(e *echo.Echo, svc ABNService) {
	e.POST("/abnlookup", ABNLookup(svc))
	e.POST("/form", FormRules(svc))
	e.POST("/form/test", FormTest(svc))
}
