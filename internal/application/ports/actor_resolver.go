package ports

import (
	"skinlib-api/internal/domain/user"
)

type ActorResolver interface {
	ResolveActor(token string) (*user.Actor, error)
}
