// README: Firebase Admin SDK initialisation and ID-token verifier (hosted auth boundary).
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// AuthToken holds the verified token data consumed by the HTTP middleware.
// Token issuance happens entirely at the hosted provider; this service only
// checks tokens it is handed.
type AuthToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier verifies a raw ID token string and returns its claims.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*AuthToken, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a TokenVerifier using the Firebase Admin SDK.
// If credentialsFile is non-empty it is used as the service-account JSON path;
// otherwise application-default credentials apply.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*AuthToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &AuthToken{UID: token.UID, Claims: token.Claims}, nil
}
