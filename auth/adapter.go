package auth

import (
	"context"
	"log"
	"promptgallery/models"
	"sync"
)

// UserProvisioner creates the catalog row of a user unless it exists already
type UserProvisioner interface {
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Snapshot is the identity state seen by one client
type Snapshot struct {
	User    *models.User `json:"user"`
	Loading bool         `json:"loading"`
}

// Adapter follows the session of a single client. It keeps the current user,
// updates it on every session change and tells its watchers about it.
type Adapter struct {
	provider Provider
	users    UserProvisioner

	mu          sync.Mutex
	token       string
	user        *models.User
	loading     bool
	watchers    map[int]func(Snapshot)
	nextWatcher int
	unsubscribe func()
}

func NewAdapter(provider Provider, users UserProvisioner) *Adapter {
	return &Adapter{
		provider: provider,
		users:    users,
		loading:  true,
		watchers: map[int]func(Snapshot){},
	}
}

// Start subscribes to session changes and loads the session of token (may be empty)
func (a *Adapter) Start(ctx context.Context, token string) error {
	a.mu.Lock()
	if a.unsubscribe == nil {
		a.unsubscribe = a.provider.Subscribe(a.onEvent)
	}
	a.token = token
	a.mu.Unlock()

	session, err := a.provider.GetSession(ctx, token)
	if err != nil {
		a.swap(&token, token, nil)
		return err
	}
	// A sign in or sign out that happened meanwhile wins
	a.swap(&token, token, session)
	return nil
}

func (a *Adapter) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *Adapter) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *Adapter) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *Adapter) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.provision(ctx, session)
	a.update(session.Token, session)
	return session, nil
}

// SignUp creates the account and the catalog row of the user.
// A failure to create the row is logged, the sign up itself still succeeds.
func (a *Adapter) SignUp(ctx context.Context, email, password, username string) (*Session, error) {
	metadata := map[string]string{}
	if username != "" {
		metadata["username"] = username
	}
	session, err := a.provider.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, err
	}
	a.provision(ctx, session)
	a.update(session.Token, session)
	return session, nil
}

func (a *Adapter) SignOut(ctx context.Context) error {
	token := a.Token()
	if err := a.provider.SignOut(ctx, token); err != nil {
		return err
	}
	a.update("", nil)
	return nil
}

// Watch calls fn with the current snapshot right away and after every change
func (a *Adapter) Watch(fn func(Snapshot)) (cancel func()) {
	a.mu.Lock()
	id := a.nextWatcher
	a.nextWatcher++
	a.watchers[id] = fn
	snapshot := Snapshot{User: a.user, Loading: a.loading}
	a.mu.Unlock()

	fn(snapshot)
	return func() {
		a.mu.Lock()
		delete(a.watchers, id)
		a.mu.Unlock()
	}
}

// Close stops following session changes
func (a *Adapter) Close() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.watchers = map[int]func(Snapshot){}
	a.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (a *Adapter) provision(ctx context.Context, session *Session) {
	if a.users == nil {
		return
	}
	user := ToAppUser(session.User)
	if _, err := a.users.EnsureUser(ctx, &user); err != nil {
		log.Printf("Cannot create user row for %s: %v", user.ID, err)
	}
}

// onEvent only reacts to changes of the session this adapter follows
func (a *Adapter) onEvent(event Event, session *Session) {
	if session == nil || session.Token == "" {
		return
	}
	switch event {
	case EventSignedIn:
		a.swap(&session.Token, session.Token, session)
	case EventSignedOut:
		a.swap(&session.Token, "", nil)
	}
}

// update derives the user from the session and notifies the watchers
func (a *Adapter) update(token string, session *Session) {
	a.swap(nil, token, session)
}

// swap replaces the state, but only while the followed token is still
// expected (when expected is set)
func (a *Adapter) swap(expected *string, token string, session *Session) {
	var user *models.User
	if session != nil {
		u := ToAppUser(session.User)
		user = &u
	}
	a.mu.Lock()
	if expected != nil && a.token != *expected {
		a.mu.Unlock()
		return
	}
	a.token = token
	a.user = user
	a.loading = false
	snapshot := Snapshot{User: a.user, Loading: a.loading}
	watchers := make([]func(Snapshot), 0, len(a.watchers))
	for _, fn := range a.watchers {
		watchers = append(watchers, fn)
	}
	a.mu.Unlock()

	for _, fn := range watchers {
		fn(snapshot)
	}
}
