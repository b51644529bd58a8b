package rewards

import (
	"sync"
)

// keyedMutex sérialise les écritures par userId: deux logAction concurrents
// pour le même utilisateur ne peuvent pas entrelacer leur read-modify-write.
// Les utilisateurs distincts restent parallèles.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// Lock verrouille la clé et rend la fonction de déverrouillage
func (k *keyedMutex) Lock(key string) func() {
	l := k.get(key)
	l.Lock()
	return l.Unlock
}
