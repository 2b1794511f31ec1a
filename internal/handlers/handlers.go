package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"formrelay/internal/formjson"
	"formrelay/internal/logger"
	"formrelay/internal/pages"
	"formrelay/internal/store"
	"formrelay/internal/validation"
)

// storeTimeout bounds each submission history query.
const storeTimeout = 5 * time.Second

// Validator relays a serialized form to a validation endpoint.
type Validator interface {
	Validate(ctx context.Context, target validation.Target, form formjson.SerializedForm) (validation.Response, error)
}

// Submissions records relayed forms.
type Submissions interface {
	Create(ctx context.Context, page string, form formjson.SerializedForm) (string, error)
	Complete(ctx context.Context, id, status string, response any, errText string) error
	Get(ctx context.Context, id string) (store.Submission, error)
	List(ctx context.Context, f store.Filter) ([]store.Submission, error)
}

func readError(c echo.Context, err error) error {
	if errors.Is(err, formjson.ErrUnsupportedMediaType) {
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "form body must be url-encoded or multipart"})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form body"})
}

// Serialize godoc
// @Summary      Serialize a form submission
// @Description  Converts url-encoded or multipart form fields into a JSON object. Repeated names become arrays in submission order.
// @Tags         serialize
// @Accept       x-www-form-urlencoded,mpfd
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      415  {object}  map[string]string
// @Router       /v1/serialize [post]
func Serialize() echo.HandlerFunc {
	return func(c echo.Context) error {
		entries, err := formjson.ReadRequest(c.Request())
		if err != nil {
			return readError(c, err)
		}
		return c.JSON(http.StatusOK, formjson.Serialize(entries))
	}
}

// SerializeHTML godoc
// @Summary      Serialize a form found in an HTML document
// @Description  Reads the submission-eligible controls of a form in the posted HTML document and converts them into a JSON object.
// @Tags         serialize
// @Accept       html
// @Produce      json
// @Param        form  query  string  false  "Form id; the first form when empty"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/serialize/html [post]
func SerializeHTML() echo.HandlerFunc {
	return func(c echo.Context) error {
		body := http.MaxBytesReader(c.Response(), c.Request().Body, 10<<20)
		entries, err := formjson.ReadHTML(body, c.QueryParam("form"))
		if errors.Is(err, formjson.ErrFormNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
		}
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid html document"})
		}
		return c.JSON(http.StatusOK, formjson.Serialize(entries))
	}
}

// ListPages godoc
// @Summary      List configured pages
// @Description  Returns each page with its validation endpoint and response bindings
// @Tags         pages
// @Produce      json
// @Success      200  {array}  pages.Page
// @Router       /v1/pages [get]
func ListPages(reg *pages.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, reg.List())
	}
}

// SubmitPage godoc
// @Summary      Submit a page form for validation
// @Description  Serializes the posted form, relays it as JSON to the page's validation endpoint and returns the element updates for the page
// @Tags         pages
// @Accept       x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        name  path  string  true  "Page name"
// @Success      200   {object}  SubmitResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      415   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Failure      502   {object}  SubmitResponse
// @Router       /v1/pages/{name}/submit [post]
func SubmitPage(reg *pages.Registry, validator Validator, subs Submissions) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, ok := reg.Lookup(c.Param("name"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "page not found"})
		}

		entries, err := formjson.ReadRequest(c.Request())
		if err != nil {
			return readError(c, err)
		}
		form := formjson.Serialize(entries)

		ctx := c.Request().Context()
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
		defer cancel()

		id, err := subs.Create(storeCtx, page.Name, form)
		if err != nil {
			logger.Error("failed to record submission", err, zap.String("page", page.Name))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record submission"})
		}

		logger.Debug("relaying submission",
			zap.String("page", page.Name),
			zap.String("submission_id", id),
			zap.Any("payload", form))

		result, err := validator.Validate(ctx, page.Target(), form)
		if err != nil {
			logger.Error("validation relay failed", err, zap.String("page", page.Name), zap.String("submission_id", id))
			if cerr := subs.Complete(storeCtx, id, store.StatusFailed, nil, err.Error()); cerr != nil {
				logger.Error("failed to mark submission failed", cerr, zap.String("submission_id", id))
			}
			return c.JSON(http.StatusBadGateway, SubmitResponse{
				SubmissionID: id,
				Display:      page.Failure(err),
			})
		}

		if err := subs.Complete(storeCtx, id, store.StatusCompleted, result, ""); err != nil {
			logger.Error("failed to complete submission", err, zap.String("submission_id", id))
		}

		return c.JSON(http.StatusOK, SubmitResponse{
			SubmissionID: id,
			Display:      page.Render(result),
			Result:       result,
		})
	}
}

// ListSubmissions godoc
// @Summary      List relayed submissions
// @Description  Returns a paginated list of submissions filtered by page and status and sorted by a column
// @Tags         submissions
// @Produce      json
// @Param        page       query  int     false  "Page number"     default(1)
// @Param        limit      query  int     false  "Items per page"  default(10)
// @Param        form       query  string  false  "Filter by page name"
// @Param        status     query  string  false  "Filter by status"
// @Param        sort       query  string  false  "Sort by page, status, created_at or updated_at"
// @Param        direction  query  string  false  "Sort direction: asc or desc"
// @Success      200  {object}  ListSubmissionsResponse
// @Failure      500  {object}  map[string]string
// @Router       /v1/submissions [get]
func ListSubmissions(subs Submissions) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
		defer cancel()

		pageNum, _ := strconv.Atoi(c.QueryParam("page"))
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		filter := store.Filter{
			Page:      c.QueryParam("form"),
			Status:    c.QueryParam("status"),
			Sort:      c.QueryParam("sort"),
			Direction: c.QueryParam("direction"),
			PageNum:   pageNum,
			Limit:     limit,
		}.Normalize()

		results, err := subs.List(ctx, filter)
		if err != nil {
			logger.Error("query error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, ListSubmissionsResponse{
			Page:    filter.PageNum,
			Limit:   filter.Limit,
			Results: results,
		})
	}
}

// GetSubmission godoc
// @Summary      Get one submission
// @Tags         submissions
// @Produce      json
// @Param        id   path  string  true  "Submission ID"
// @Success      200  {object}  store.Submission
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/submissions/{id} [get]
func GetSubmission(subs Submissions) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
		defer cancel()

		sub, err := subs.Get(ctx, c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		if err != nil {
			logger.Error("get submission", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, sub)
	}
}

// Alivez godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  AliveResponse
// @Router       /alivez [get]
func Alivez() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, AliveResponse{Alive: true})
	}
}
