package webhook

import "finpulse/internal/domain/item"

type routeKey struct {
	Type Type
	Code string
}

type routeFunc func(env Envelope) item.Transition

var routes = map[routeKey]routeFunc{
	{TypeTransactions, CodeSyncUpdatesAvailable}: func(env Envelope) item.Transition {
		return item.MarkSyncNeeded(env.Name(), max(env.NewTransactions, 0))
	},
	{TypeTransactions, CodeInitialUpdate}:    markSynced,
	{TypeTransactions, CodeHistoricalUpdate}: markSynced,
	{TypeItem, CodeError}: func(env Envelope) item.Transition {
		var e item.Error
		if env.Error != nil {
			e = *env.Error
		}
		return item.MarkError(env.Name(), e)
	},
	{TypeItem, CodePendingExpiration}: func(env Envelope) item.Transition {
		return item.SetStatus(env.Name(), item.StatusPendingExpiration)
	},
	{TypeItem, CodeUserPermissionRevoked}: func(env Envelope) item.Transition {
		return item.SetStatus(env.Name(), item.StatusRevoked)
	},
	{TypeItem, CodeWebhookUpdateAcknowledged}: noop,
	{TypeAuth, CodeAutomaticallyVerified}:     noop,
	{TypeAuth, CodeVerificationExpired}:       noop,
}

func markSynced(env Envelope) item.Transition {
	return item.MarkSynced(env.Name())
}

func noop(env Envelope) item.Transition {
	return item.Noop(env.Name())
}

// Route maps an envelope to the item transition it calls for.
// Unknown type/code pairs yield a no-op transition.
func Route(env Envelope) item.Transition {
	if fn, ok := routes[routeKey{env.Type, env.Code}]; ok {
		return fn(env)
	}
	return item.Noop(env.Name())
}

// Recognized reports whether the type/code pair is in the routing table.
func Recognized(env Envelope) bool {
	_, ok := routes[routeKey{env.Type, env.Code}]
	return ok
}
