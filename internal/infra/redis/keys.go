package redis

import (
	"fmt"

	"vineyard-quiz/internal/domain"
)

// Keys mirror the hierarchical document paths used by the hosted store so a
// namespace can be inspected with the same layout.
func sessionKey(namespace, code string) string {
	return "artifacts/" + namespace + "/public/data/games/" + code
}

func sessionChannel(namespace, code string) string {
	return sessionKey(namespace, code) + ":changes"
}

func profileKey(namespace, id string) string {
	return "artifacts/" + namespace + "/users/" + id + "/profile"
}

func elaborationKey(namespace, key string) string {
	return "artifacts/" + namespace + "/cache/elaborations/" + key
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
