package gls

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"
)

// SOAPAPIClient is the production implementation of APIClient using the GLS
// SOAP web service.
type SOAPAPIClient struct {
	endpoint   string
	httpClient *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client. Credentials
// travel in the request body, not here: the caller supplies them per request.
type SOAPAPIClientConfig struct {
	// WSDLURL is the service WSDL location; the POST endpoint is derived
	// from it by stripping the "?wsdl" query.
	WSDLURL string
	Timeout time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SOAPAPIClient{
		endpoint: strings.TrimSuffix(cfg.WSDLURL, "?wsdl"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetParcelShopByID resolves a parcel shop through the GLS web service.
func (c *SOAPAPIClient) GetParcelShopByID(ctx context.Context, req *ParcelShopRequest) (*ParcelShopResponse, error) {
	soapBody, err := c.buildParcelShopRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.doSOAPRequest(ctx, EndpointGetParcelShopByID, soapBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	return c.parseParcelShopResponse(resp.Body)
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("http://www.gls-france.com/ws/%s", action))

	return c.httpClient.Do(req)
}

// ============================================================================
// SOAP Request Builders
// ============================================================================

const soapEnvelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:gls="http://www.gls-france.com/ws">
  <soap:Body>
    {{.Body}}
  </soap:Body>
</soap:Envelope>`

func (c *SOAPAPIClient) buildParcelShopRequest(req *ParcelShopRequest) ([]byte, error) {
	bodyTmpl := `<gls:GetParcelShopById>
      <gls:Credentials>
        <gls:UserName>{{.Credentials.UserName}}</gls:UserName>
        <gls:Password>{{.Credentials.Password}}</gls:Password>
      </gls:Credentials>
      <gls:ParcelShopId>{{.ParcelShopID}}</gls:ParcelShopId>
    </gls:GetParcelShopById>`

	return c.buildEnvelope(bodyTmpl, req)
}

func (c *SOAPAPIClient) buildEnvelope(bodyTemplate string, data interface{}) ([]byte, error) {
	bodyTmpl, err := template.New("body").Parse(bodyTemplate)
	if err != nil {
		return nil, err
	}

	var bodyBuf bytes.Buffer
	if err := bodyTmpl.Execute(&bodyBuf, data); err != nil {
		return nil, err
	}

	envTmpl, err := template.New("envelope").Parse(soapEnvelopeTemplate)
	if err != nil {
		return nil, err
	}

	envData := struct {
		Body string
	}{
		Body: bodyBuf.String(),
	}

	var envBuf bytes.Buffer
	if err := envTmpl.Execute(&envBuf, envData); err != nil {
		return nil, err
	}

	return envBuf.Bytes(), nil
}

// ============================================================================
// SOAP Response Parsers - XML Types
// ============================================================================

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Fault                     *soapFault                 `xml:"Fault,omitempty"`
	GetParcelShopByIDResponse *getParcelShopByIDResponse `xml:"GetParcelShopByIdResponse,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type getParcelShopByIDResponse struct {
	Result getParcelShopByIDResult `xml:"GetParcelShopByIdResult"`
}

type getParcelShopByIDResult struct {
	ParcelShop *soapParcelShop `xml:"ParcelShop"`
}

type soapParcelShop struct {
	ParcelShopID string             `xml:"ParcelShopId"`
	Address      soapParcelShopAddr `xml:"Address"`
}

type soapParcelShopAddr struct {
	Name1       string `xml:"Name1"`
	Name2       string `xml:"Name2"`
	Street1     string `xml:"Street1"`
	ZipCode     string `xml:"ZipCode"`
	City        string `xml:"City"`
	CountryCode string `xml:"CountryCode"`
}

// ============================================================================
// SOAP Response Parsing Functions
// ============================================================================

func (c *SOAPAPIClient) parseSOAPError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Body.Fault != nil {
		return &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

func (c *SOAPAPIClient) parseParcelShopResponse(body io.Reader) (*ParcelShopResponse, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env soapEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if env.Body.Fault != nil {
		return nil, &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	// An absent response element or shop entry is a lookup failure, not a
	// crash: the loose upstream payload shape cannot be trusted.
	if env.Body.GetParcelShopByIDResponse == nil {
		return nil, &APIError{
			Code:        "MALFORMED_RESPONSE",
			Description: "missing GetParcelShopByIdResponse element",
		}
	}

	shop := env.Body.GetParcelShopByIDResponse.Result.ParcelShop
	if shop == nil {
		return &ParcelShopResponse{}, nil
	}

	return &ParcelShopResponse{
		ParcelShop: &ParcelShop{
			ParcelShopID: shop.ParcelShopID,
			Address: ParcelShopAddress{
				Name1:       shop.Address.Name1,
				Name2:       shop.Address.Name2,
				Street:      shop.Address.Street1,
				ZipCode:     shop.Address.ZipCode,
				City:        shop.Address.City,
				CountryCode: shop.Address.CountryCode,
			},
		},
	}, nil
}
