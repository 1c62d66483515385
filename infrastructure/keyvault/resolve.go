package keyvault

import (
	"context"

	"propmgmt/domain/contracts"
)

// Resolve returns value when set, otherwise the named vault secret. An empty
// key or a nil store yields value unchanged.
func Resolve(ctx context.Context, store contracts.SecretStore, value, key string) (string, error) {
	if value != "" || key == "" || store == nil {
		return value, nil
	}
	return store.GetSecret(ctx, key)
}
