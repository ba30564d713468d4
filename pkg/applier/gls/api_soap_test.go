package gls_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/feedbridge/glsbridge/pkg/applier/gls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parcelShopEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetParcelShopByIdResponse>
      <GetParcelShopByIdResult>
        <ParcelShop>
          <ParcelShopId>2500012345</ParcelShopId>
          <Address>
            <Name1>Tabac de la Gare</Name1>
            <Street1>3 place de la Gare</Street1>
            <ZipCode>69001</ZipCode>
            <City>Lyon</City>
            <CountryCode>FR</CountryCode>
          </Address>
        </ParcelShop>
      </GetParcelShopByIdResult>
    </GetParcelShopByIdResponse>
  </soap:Body>
</soap:Envelope>`

const faultEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Authentication failed</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

func TestSOAPAPIClient_GetParcelShopByID(t *testing.T) {
	var receivedAction, receivedBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAction = r.Header.Get("SOAPAction")
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Write([]byte(parcelShopEnvelope))
	}))
	defer srv.Close()

	client := gls.NewSOAPAPIClient(gls.SOAPAPIClientConfig{WSDLURL: srv.URL + "?wsdl"})

	resp, err := client.GetParcelShopByID(context.Background(), &gls.ParcelShopRequest{
		Credentials:  gls.Credentials{UserName: "user", Password: "secret"},
		ParcelShopID: "2500012345",
	})

	require.NoError(t, err)
	require.NotNil(t, resp.ParcelShop)
	assert.Equal(t, "2500012345", resp.ParcelShop.ParcelShopID)
	assert.Equal(t, "Tabac de la Gare", resp.ParcelShop.Address.Name1)
	assert.Equal(t, "3 place de la Gare", resp.ParcelShop.Address.Street)
	assert.Equal(t, "Lyon", resp.ParcelShop.Address.City)

	assert.Contains(t, receivedAction, "GetParcelShopById")
	assert.Contains(t, receivedBody, "<gls:ParcelShopId>2500012345</gls:ParcelShopId>")
	assert.Contains(t, receivedBody, "<gls:UserName>user</gls:UserName>")
}

func TestSOAPAPIClient_Fault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(faultEnvelope))
	}))
	defer srv.Close()

	client := gls.NewSOAPAPIClient(gls.SOAPAPIClientConfig{WSDLURL: srv.URL})

	_, err := client.GetParcelShopByID(context.Background(), &gls.ParcelShopRequest{
		Credentials:  gls.Credentials{UserName: "user", Password: "bad"},
		ParcelShopID: "2500012345",
	})

	require.Error(t, err)
	var apiErr *gls.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Description, "Authentication failed")
}

func TestSOAPAPIClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body></soap:Body></soap:Envelope>`))
	}))
	defer srv.Close()

	client := gls.NewSOAPAPIClient(gls.SOAPAPIClientConfig{WSDLURL: srv.URL})

	_, err := client.GetParcelShopByID(context.Background(), &gls.ParcelShopRequest{
		Credentials:  gls.Credentials{UserName: "user", Password: "secret"},
		ParcelShopID: "2500012345",
	})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "MALFORMED_RESPONSE"))
}

func TestSOAPAPIClient_EmptyShopEntry(t *testing.T) {
	empty := `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetParcelShopByIdResponse>
      <GetParcelShopByIdResult></GetParcelShopByIdResult>
    </GetParcelShopByIdResponse>
  </soap:Body>
</soap:Envelope>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(empty))
	}))
	defer srv.Close()

	client := gls.NewSOAPAPIClient(gls.SOAPAPIClientConfig{WSDLURL: srv.URL})

	resp, err := client.GetParcelShopByID(context.Background(), &gls.ParcelShopRequest{
		Credentials:  gls.Credentials{UserName: "user", Password: "secret"},
		ParcelShopID: "2500012345",
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ParcelShop)
}
