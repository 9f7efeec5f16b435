package main

import (
	"fmt"
	"time"

	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/mint"
	"github.com/bitfsorg/libmint-go/store"
)

// openEngine opens the token database and builds an engine for sale. The
// caller closes the returned store.
func (a *MintApp) openEngine(sale config.Sale, opts ...mint.Option) (*mint.Engine, *store.BoltStore, error) {
	if err := a.ensureDataDir(); err != nil {
		return nil, nil, err
	}
	st, err := store.OpenBoltStore(a.cfg.DBPath(), 2*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("open database (is mintd serve running?): %w", err)
	}
	opts = append([]mint.Option{mint.WithLogger(a.logger)}, opts...)
	e, err := mint.New(st, sale.EngineConfig(), opts...)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return e, st, nil
}

// openSaleEngine loads the configured sale file and opens its engine.
func (a *MintApp) openSaleEngine() (*mint.Engine, *store.BoltStore, config.Sale, error) {
	sale, err := config.LoadSale(a.cfg.SalePath())
	if err != nil {
		return nil, nil, sale, err
	}
	e, st, err := a.openEngine(sale)
	return e, st, sale, err
}
