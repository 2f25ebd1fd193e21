package stream

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/ameritrade-data/internal/api"
)

// LoginDetails carries the streamer connection settings extracted from a
// user principals response.
type LoginDetails struct {
	SocketURL  string // wss:// URL built from streamerSocketUrl
	AccountID  string // Streamer account ID
	AppID      string // Streamer source/app ID
	Token      string // Streamer session token
	Credential string // URL-encoded login credential
}

// NewLoginDetails derives streamer login details from user principals.
// The principals must have been fetched with the streamerConnectionInfo
// and streamerSubscriptionKeys fields.
func NewLoginDetails(up *api.UserPrincipalsResponse) (*LoginDetails, error) {
	if up.StreamerInfo == nil {
		return nil, fmt.Errorf("user principals missing streamerInfo")
	}
	if len(up.Accounts) == 0 {
		return nil, fmt.Errorf("user principals missing accounts")
	}

	account := up.Accounts[0]
	for _, a := range up.Accounts {
		if a.AccountID == up.PrimaryAccountID {
			account = a
			break
		}
	}

	info := up.StreamerInfo

	tokenTS, err := time.Parse(time.RFC3339, info.TokenTimestamp)
	if err != nil {
		// Vendor token timestamps use a numeric zone without a colon.
		tokenTS, err = time.Parse("2006-01-02T15:04:05-0700", info.TokenTimestamp)
		if err != nil {
			return nil, fmt.Errorf("parse token timestamp: %w", err)
		}
	}

	// The credential is a URL-encoded form of the principal details, in
	// the order the streamer expects.
	credential := url.Values{}
	credential.Set("userid", account.AccountID)
	credential.Set("token", info.Token)
	credential.Set("company", account.Company)
	credential.Set("segment", account.Segment)
	credential.Set("cddomain", up.UserCdDomainID)
	credential.Set("usergroup", info.UserGroup)
	credential.Set("accesslevel", info.AccessLevel)
	credential.Set("authorized", "Y")
	credential.Set("timestamp", strconv.FormatInt(tokenTS.UnixMilli(), 10))
	credential.Set("appid", info.AppID)
	credential.Set("acl", info.ACL)

	socketURL := info.StreamerSocketURL
	if !strings.HasPrefix(socketURL, "ws") {
		socketURL = "wss://" + socketURL + "/ws"
	}

	return &LoginDetails{
		SocketURL:  socketURL,
		AccountID:  account.AccountID,
		AppID:      info.AppID,
		Token:      info.Token,
		Credential: credential.Encode(),
	}, nil
}

// LoginRequest builds the ADMIN LOGIN command.
func (d *LoginDetails) LoginRequest(requestID int) Request {
	return Request{
		Service:   "ADMIN",
		Command:   "LOGIN",
		RequestID: strconv.Itoa(requestID),
		Account:   d.AccountID,
		Source:    d.AppID,
		Parameters: map[string]string{
			"credential": d.Credential,
			"token":      d.Token,
			"version":    "1.0",
		},
	}
}

// LogoutRequest builds the ADMIN LOGOUT command.
func (d *LoginDetails) LogoutRequest(requestID int) Request {
	return Request{
		Service:    "ADMIN",
		Command:    "LOGOUT",
		RequestID:  strconv.Itoa(requestID),
		Account:    d.AccountID,
		Source:     d.AppID,
		Parameters: map[string]string{},
	}
}

// QuoteSubscription builds a QUOTE SUBS command for the given symbols.
func (d *LoginDetails) QuoteSubscription(requestID int, symbols []string) Request {
	return Request{
		Service:   "QUOTE",
		Command:   "SUBS",
		RequestID: strconv.Itoa(requestID),
		Account:   d.AccountID,
		Source:    d.AppID,
		Parameters: map[string]string{
			"keys":   strings.Join(symbols, ","),
			"fields": QuoteFields,
		},
	}
}
