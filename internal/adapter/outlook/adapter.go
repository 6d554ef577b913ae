package outlook

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/rs/zerolog/log"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Scopes requested from the Microsoft identity platform.
var Scopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"https://graph.microsoft.com/User.Read",
	"offline_access",
}

// defaultCalendarID selects /me/calendarView instead of a named calendar.
const defaultCalendarID = "default"

// OAuthConfig returns the OAuth2 configuration for a tenant. An empty
// tenant means "common".
func OAuthConfig(clientID, tenantID, redirectURL string) *oauth2.Config {
	if tenantID == "" {
		tenantID = "common"
	}
	return &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    microsoft.AzureADEndpoint(tenantID),
		RedirectURL: redirectURL,
		Scopes:      Scopes,
	}
}

// OutlookAdapter reads Outlook / Office 365 calendars through Microsoft Graph.
type OutlookAdapter struct {
	id        string
	name      string
	oauth     *oauth2.Config
	tokenFile string
	calendars map[string]string

	token   *oauth2.Token
	tokenMu sync.Mutex
	client  *msgraphsdk.GraphServiceClient
}

func NewOutlookAdapter(id, name, clientID, tenantID, tokenFile string) *OutlookAdapter {
	return &OutlookAdapter{
		id:        id,
		name:      name,
		oauth:     OAuthConfig(clientID, tenantID, "http://localhost:8085/callback"),
		tokenFile: tokenFile,
		calendars: make(map[string]string),
	}
}

func (o *OutlookAdapter) ID() string   { return o.id }
func (o *OutlookAdapter) Name() string { return o.name }

// GetToken lets the adapter act as the azcore.TokenCredential the Graph
// SDK authenticates with.
func (o *OutlookAdapter) GetToken(ctx context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tok, err := o.validToken(ctx)
	if err != nil {
		return azcore.AccessToken{}, err
	}
	return azcore.AccessToken{Token: tok.AccessToken, ExpiresOn: tok.Expiry}, nil
}

// Login loads the saved OAuth token and initializes the Graph SDK client.
func (o *OutlookAdapter) Login(ctx context.Context) error {
	tok, err := tokenFromFile(o.tokenFile)
	if err != nil {
		return fmt.Errorf("read token file (run 'gigcheck auth' first): %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token file has no access token, delete %s and run 'gigcheck auth' again", o.tokenFile)
	}
	o.token = tok

	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(o, []string{
		"https://graph.microsoft.com/.default",
	})
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	o.client = client

	o.loadCalendarList(ctx)
	return nil
}

// validToken returns the current token, refreshing and persisting it when
// it has expired.
func (o *OutlookAdapter) validToken(ctx context.Context) (*oauth2.Token, error) {
	o.tokenMu.Lock()
	defer o.tokenMu.Unlock()

	if o.token.Valid() {
		return o.token, nil
	}

	newTok, err := o.oauth.TokenSource(ctx, o.token).Token()
	if err != nil {
		return nil, fmt.Errorf("token expired and refresh failed (delete %s and run 'gigcheck auth'): %w", o.tokenFile, err)
	}
	o.token = newTok

	if err := saveToken(o.tokenFile, newTok); err != nil {
		log.Warn().Err(err).Str("file", o.tokenFile).Msg("could not persist refreshed token")
	}
	return newTok, nil
}

// Calendars returns all available calendars (ID -> Name).
func (o *OutlookAdapter) Calendars() map[string]string {
	return o.calendars
}

func (o *OutlookAdapter) loadCalendarList(ctx context.Context) {
	result, err := o.client.Me().Calendars().Get(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("list outlook calendars failed, using the default calendar")
		o.calendars[defaultCalendarID] = "Calendar"
		return
	}
	for _, cal := range result.GetValue() {
		id, name := cal.GetId(), cal.GetName()
		if id != nil && name != nil {
			o.calendars[*id] = *name
		}
	}
}
