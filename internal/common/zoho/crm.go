package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "property-eligibility-workers/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	oauthToken string
	baseURL    string
	http       *commonhttp.Client
}

// Contact is a Zoho CRM contact record. Custom fields use Zoho's API names.
type Contact struct {
	ID                 string `json:"id,omitempty"`
	Email              string `json:"Email"`
	FirstName          string `json:"First_Name,omitempty"`
	LastName           string `json:"Last_Name"`
	Phone              string `json:"Phone,omitempty"`
	Source             string `json:"Lead_Source,omitempty"`
	Description        string `json:"Description,omitempty"`
	EligibilityScore   int    `json:"Eligibility_Score,omitempty"`
	QualificationLevel string `json:"Qualification_Level,omitempty"`
}

type recordResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       commonhttp.NewClient(timeout),
	}
}

// Configured reports whether the client has credentials.
func (c *CRMClient) Configured() bool {
	return c != nil && c.oauthToken != ""
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

func (c *CRMClient) CreateContact(ctx context.Context, contact *Contact) (string, error) {
	resp, err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/Contacts", c.headers(),
		map[string]interface{}{"data": []Contact{*contact}})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create contact (status %d): %s", resp.StatusCode, string(resp.Body))
	}
	return firstRecordID(resp)
}

func (c *CRMClient) UpdateContact(ctx context.Context, contactID string, contact *Contact) error {
	resp, err := c.http.DoJSON(ctx, http.MethodPut, c.baseURL+"/Contacts/"+url.PathEscape(contactID), c.headers(),
		map[string]interface{}{"data": []Contact{*contact}})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update contact (status %d): %s", resp.StatusCode, string(resp.Body))
	}
	_, err = firstRecordID(resp)
	return err
}

// SearchContacts finds contacts by e-mail. Zoho answers 204 when nothing matches.
func (c *CRMClient) SearchContacts(ctx context.Context, email string) ([]Contact, error) {
	endpoint := fmt.Sprintf("%s/Contacts/search?email=%s", c.baseURL, url.QueryEscape(email))

	resp, err := c.http.DoJSON(ctx, http.MethodGet, endpoint, c.headers(), nil)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("failed to search contacts (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	var result struct {
		Data []Contact `json:"data"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

func firstRecordID(resp *commonhttp.Response) (string, error) {
	var out recordResponse
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if out.Data[0].Status != "success" {
		return "", fmt.Errorf("zoho rejected record: %s (%s)", out.Data[0].Message, out.Data[0].Code)
	}
	return out.Data[0].Details.ID, nil
}
