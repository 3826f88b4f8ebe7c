package main

import (
	"benritz/bonds/internal/calc"
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/input"
	"benritz/bonds/internal/report"
	"benritz/bonds/internal/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingTerms   = fmt.Errorf("%w: price, face_value, coupon_rate_pct and years are required", types.ErrInvalidInput)
	ErrMarkupConflict = fmt.Errorf("%w: markup and markup_pct cannot both be set", types.ErrInvalidInput)
)

type calcRequest struct {
	Name           string   `json:"name"`
	Currency       string   `json:"currency"`
	Price          *float64 `json:"price"`
	FaceValue      *float64 `json:"face_value"`
	CouponRate     *float64 `json:"coupon_rate_pct"`
	Years          *int     `json:"years"`
	Markup         *float64 `json:"markup"`
	MarkupPercent  *float64 `json:"markup_pct"`
	WithholdingTax float64  `json:"withholding_tax"`
	Guess          *float64 `json:"guess_pct"`
	Simple         bool     `json:"simple_annualisation"`
}

type yieldResponse struct {
	Percent    float64 `json:"ytm_pct"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	Converged  bool    `json:"converged"`
	Error      string  `json:"error,omitempty"`
}

type returnResponse struct {
	AdjustedPrice       float64 `json:"adjusted_price"`
	TotalCoupons        float64 `json:"total_coupons"`
	AfterTaxCoupons     float64 `json:"after_tax_coupons"`
	CapitalGain         float64 `json:"capital_gain"`
	TotalReturn         float64 `json:"total_return"`
	TotalReturnPercent  float64 `json:"total_return_pct"`
	AnnualisedReturn    float64 `json:"annualised_return"`
	AnnualisedReturnPct float64 `json:"annualised_return_pct"`
	FormattedTotal      string  `json:"formatted_total_return"`
	FormattedAnnualised string  `json:"formatted_annualised_return"`
	Error               string  `json:"error,omitempty"`
}

type calcResponse struct {
	Name     string          `json:"name,omitempty"`
	Currency types.Currency  `json:"currency"`
	Yield    *yieldResponse  `json:"yield,omitempty"`
	Return   *returnResponse `json:"return,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type server struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func (s *server) toRequest(body calcRequest) (*input.Request, calc.Options, error) {
	opts := calc.Options{MaxIterations: s.cfg.MaxIterations}

	if body.Price == nil || body.FaceValue == nil || body.CouponRate == nil || body.Years == nil {
		return nil, opts, ErrMissingTerms
	}

	if body.Markup != nil && body.MarkupPercent != nil {
		return nil, opts, ErrMarkupConflict
	}

	currency := s.cfg.DefaultCurrency
	if body.Currency != "" {
		c, err := types.ParseCurrency(body.Currency)
		if err != nil {
			return nil, opts, err
		}
		currency = c
	}

	req := &input.Request{
		Name:     body.Name,
		Currency: currency,
		Terms: types.BondTerms{
			FaceValue:  *body.FaceValue,
			CouponRate: *body.CouponRate / 100,
			Years:      *body.Years,
			Price:      *body.Price,
		},
		Costs: types.TransactionCosts{
			WithholdingTax: body.WithholdingTax,
		},
	}

	if body.Markup != nil {
		req.Costs.Markup = *body.Markup
	}
	if body.MarkupPercent != nil {
		req.Costs.Markup = types.MarkupAmount(req.Terms.Price, *body.MarkupPercent)
	}

	if body.Guess != nil {
		guess := *body.Guess / 100
		opts.Guess = &guess
	}

	if err := req.Terms.Validate(); err != nil {
		return nil, opts, err
	}
	if err := req.Costs.Validate(); err != nil {
		return nil, opts, err
	}

	return req, opts, nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func respond(status int, body calcResponse) (events.APIGatewayV2HTTPResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}, nil
}

func (s *server) handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body calcRequest
	if err := json.Unmarshal([]byte(request.Body), &body); err != nil {
		return respond(http.StatusBadRequest, calcResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
	}

	req, opts, err := s.toRequest(body)
	if err != nil {
		s.logger.WithField("name", body.Name).Infof("rejected request: %v", err)
		return respond(http.StatusBadRequest, calcResponse{Name: body.Name, Error: err.Error()})
	}

	c := calc.Calculate(req, opts)

	if body.Simple && c.ReturnErr == nil {
		c.Return.AnnualisedAbsolute, c.Return.AnnualisedPercentage, c.ReturnErr = types.SimpleAnnualisedReturn(
			c.Return.TotalReturnAbsolute,
			c.Return.TotalReturnPercentage,
			req.Terms.Years,
		)
	}

	resp := calcResponse{
		Name:     req.Name,
		Currency: req.Currency,
		Yield: &yieldResponse{
			Percent:    c.Yield.YTM * 100,
			Iterations: c.Yield.Iterations,
			Residual:   finite(c.Yield.Residual),
			Converged:  c.Yield.Converged,
		},
		Return: &returnResponse{
			AdjustedPrice:       c.Return.AdjustedPrice,
			TotalCoupons:        c.Return.TotalCoupons,
			AfterTaxCoupons:     c.Return.AfterTaxCoupons,
			CapitalGain:         c.Return.CapitalGain,
			TotalReturn:         c.Return.TotalReturnAbsolute,
			TotalReturnPercent:  c.Return.TotalReturnPercentage,
			AnnualisedReturn:    c.Return.AnnualisedAbsolute,
			AnnualisedReturnPct: c.Return.AnnualisedPercentage,
			FormattedTotal:      report.FormatMoney(req.Currency, c.Return.TotalReturnAbsolute),
			FormattedAnnualised: report.FormatMoney(req.Currency, c.Return.AnnualisedAbsolute),
		},
	}

	if c.YieldErr != nil {
		resp.Yield.Error = c.YieldErr.Error()
	}
	if c.ReturnErr != nil {
		resp.Return = &returnResponse{Error: c.ReturnErr.Error()}
	}

	err = c.Err()
	switch {
	case err == nil:
		return respond(http.StatusOK, resp)
	case errors.Is(err, types.ErrNonConvergence), errors.Is(err, types.ErrDomain):
		s.logger.WithFields(logrus.Fields{
			"name":  req.Name,
			"price": req.Terms.Price,
			"years": req.Terms.Years,
		}).Warnf("calculation failed: %v", err)
		return respond(http.StatusUnprocessableEntity, resp)
	default:
		return respond(http.StatusBadRequest, resp)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	s := &server{cfg: cfg, logger: cfg.NewLogger()}

	lambda.Start(s.handle)
}
