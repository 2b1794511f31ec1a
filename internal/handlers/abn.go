package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"formrelay/internal/abn"
	"formrelay/internal/formjson"
	"formrelay/internal/logger"
)

// ABNService validates demo form applicants.
type ABNService interface {
	Lookup(ctx context.Context, number string) (abn.Details, error)
	FormTest(ctx context.Context, a abn.Applicant) abn.Result
	CheckRules(ctx context.Context, a abn.Applicant) (abn.Result, error)
}

// readApplicant accepts the JSON object relayed by SubmitPage as well as a
// plain url-encoded or multipart form.
func readApplicant(c echo.Context) (abn.Applicant, error) {
	req := c.Request()
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mediaType != echo.MIMEApplicationJSON {
		entries, err := formjson.ReadRequest(req)
		if err != nil {
			return abn.Applicant{}, err
		}
		return abn.ApplicantFromForm(formjson.Serialize(entries)), nil
	}

	var form formjson.SerializedForm
	body := http.MaxBytesReader(c.Response(), req.Body, 1<<20)
	if err := json.NewDecoder(body).Decode(&form); err != nil {
		return abn.Applicant{}, err
	}
	return abn.ApplicantFromForm(form), nil
}

// ABNLookup godoc
// @Summary      Look up an ABN
// @Description  Queries the Australian Business Register and returns the ABN status and register message
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        request  body      ABNLookupRequest  false  "ABN to look up"
// @Param        abn      query     string            false  "ABN to look up when there is no body"
// @Success      200      {object}  ABNLookupResponse
// @Failure      400      {object}  map[string]string
// @Failure      502      {object}  ABNLookupResponse
// @Router       /abnlookup [post]
func ABNLookup(svc ABNService) echo.HandlerFunc {
	return func(c echo.Context) error {
		number := c.QueryParam("abn")
		if c.Request().ContentLength != 0 {
			var req ABNLookupRequest
			body := http.MaxBytesReader(c.Response(), c.Request().Body, 1<<20)
			if err := json.NewDecoder(body).Decode(&req); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
			}
			if req.Abn != "" {
				number = req.Abn
			}
		}

		details, err := svc.Lookup(c.Request().Context(), number)
		if errors.Is(err, abn.ErrMissingABN) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "abn is required"})
		}
		if err != nil {
			logger.Error("abn lookup failed", err, zap.String("abn", number))
			return c.JSON(http.StatusBadGateway, ABNLookupResponse{
				Message: "Aus Gov ABN service returned: " + err.Error(),
			})
		}
		return c.JSON(http.StatusOK, ABNLookupResponse{AbnStatus: details.AbnStatus, Message: details.Message})
	}
}

// FormTest godoc
// @Summary      Check the demo form without the rules engine
// @Description  Names are valid when present; the ABN is valid when the register lists it as active
// @Tags         validation
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Success      200  {object}  abn.Result
// @Failure      400  {object}  map[string]string
// @Failure      415  {object}  map[string]string
// @Router       /form/test [post]
func FormTest(svc ABNService) echo.HandlerFunc {
	return func(c echo.Context) error {
		applicant, err := readApplicant(c)
		if err != nil {
			return readError(c, err)
		}
		return c.JSON(http.StatusOK, svc.FormTest(c.Request().Context(), applicant))
	}
}

// FormRules godoc
// @Summary      Check the demo form with the rules engine
// @Description  Runs each entered field through its decision server and lists the violation causes
// @Tags         validation
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Success      200  {object}  abn.Result
// @Failure      400  {object}  map[string]string
// @Failure      415  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /form [post]
func FormRules(svc ABNService) echo.HandlerFunc {
	return func(c echo.Context) error {
		applicant, err := readApplicant(c)
		if err != nil {
			return readError(c, err)
		}
		res, err := svc.CheckRules(c.Request().Context(), applicant)
		if err != nil {
			logger.Error("rules check failed", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "rules engine unavailable"})
		}
		return c.JSON(http.StatusOK, res)
	}
}
