// Package auth provides GitHub authentication token management.
// Tokens come from the step's repo-token input, the environment, or the gh CLI.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider defines the interface for obtaining a GitHub authentication token.
// Implementations may use different sources (inputs, environment variables, CLI tools).
type TokenProvider interface {
	GetToken() (string, error)
}

// StaticProvider returns a token that was handed to the program explicitly,
// such as the repo-token input of the action.
type StaticProvider struct {
	Token string
}

// GetToken returns the configured token or an error if it is empty.
func (s *StaticProvider) GetToken() (string, error) {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return "", errors.New("repo-token not provided")
	}
	return token, nil
}

// EnvProvider obtains tokens from the GITHUB_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the GITHUB_TOKEN environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", errors.New("GITHUB_TOKEN environment variable not set or empty")
	}
	return token, nil
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
// Only useful when running locally.
type GhCliProvider struct{}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}

	return token, nil
}

// Chain tries each provider in order and returns the first token found.
// When all fail, the returned error lists every provider's failure.
func Chain(providers ...TokenProvider) (string, error) {
	errs := make([]error, 0, len(providers))
	for _, p := range providers {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("no GitHub token available: %w", errors.Join(errs...))
}

// GetToken obtains a token using the following strategy:
// 1. The explicit token (the repo-token input)
// 2. The GITHUB_TOKEN environment variable
// 3. The gh CLI
//
// This is the main entry point for token retrieval in the application.
func GetToken(explicit string) (string, error) {
	token, err := Chain(&StaticProvider{Token: explicit}, &EnvProvider{}, &GhCliProvider{})
	if err != nil {
		return "", fmt.Errorf("%w\n"+
			"Please either:\n"+
			"  1. Set the repo-token input (e.g. ${{ secrets.GITHUB_TOKEN }}), or\n"+
			"  2. Set the GITHUB_TOKEN environment variable, or\n"+
			"  3. Run 'gh auth login' when running locally", err)
	}
	return token, nil
}
