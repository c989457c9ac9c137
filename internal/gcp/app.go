package gcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
)

type Credentials struct {
	// EncodedJSON is a base64 service account key. It wins over File.
	EncodedJSON string
	File        string
	ProjectID   string
}

// NewFirebaseApp builds the shared Firebase app used by Firestore and FCM.
func NewFirebaseApp(ctx context.Context, creds Credentials) (*firebase.App, error) {
	var opt option.ClientOption

	if creds.EncodedJSON != "" {
		decoded, err := base64.StdEncoding.DecodeString(creds.EncodedJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Info("Firebase: initializing from FIREBASE_CREDENTIALS_JSON")
	} else {
		if _, err := os.Stat(creds.File); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FIREBASE_CREDENTIALS_JSON is not set", creds.File)
		}
		opt = option.WithCredentialsFile(creds.File)
		log.Info("Firebase: initializing from local file", "path", creds.File)
	}

	var conf *firebase.Config
	if creds.ProjectID != "" {
		conf = &firebase.Config{ProjectID: creds.ProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}
