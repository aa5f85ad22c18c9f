//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nordeval/nordeval/model"
	"github.com/nordeval/nordeval/telemetry"
)

type generateBatchParam struct {
	idx     int
	ctx     context.Context
	req     *model.Request
	gen     model.Generator
	outputs []model.Output
	errs    []error
	wg      *sync.WaitGroup
}

func (p *generateBatchParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.req = nil
	p.gen = nil
	p.outputs = nil
	p.errs = nil
	p.wg = nil
}

var generateBatchParamPool = &sync.Pool{
	New: func() any { return new(generateBatchParam) },
}

func createGenerateBatchPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*generateBatchParam)
		if !ok {
			panic("generate batch pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			generateBatchParamPool.Put(param)
		}()
		param.outputs[param.idx], param.errs[param.idx] = generateBatch(param.ctx, param.gen, param.req)
	})
	if err != nil {
		return nil, fmt.Errorf("create generate batch pool: %w", err)
	}
	return pool, nil
}

// generateBatch runs one generation request and records its latency.
func generateBatch(ctx context.Context, gen model.Generator, req *model.Request) (model.Output, error) {
	start := time.Now()
	out, err := gen.Generate(ctx, req)
	telemetry.RecordInference(ctx, time.Since(start).Seconds())
	return out, err
}

// generateBatches fans the requests out over the worker pool (or runs them
// serially when no pool is configured) and returns one output per request,
// in request order. Per-batch failures are joined into one error.
func (b *benchmarker) generateBatches(ctx context.Context, reqs []*model.Request) ([]model.Output, error) {
	outputs := make([]model.Output, len(reqs))
	errs := make([]error, len(reqs))
	if b.pool == nil {
		for i, req := range reqs {
			outputs[i], errs[i] = generateBatch(ctx, b.generator, req)
		}
	} else {
		var wg sync.WaitGroup
		for i, req := range reqs {
			wg.Add(1)
			param := generateBatchParamPool.Get().(*generateBatchParam)
			param.idx = i
			param.ctx = ctx
			param.req = req
			param.gen = b.generator
			param.outputs = outputs
			param.errs = errs
			param.wg = &wg
			if err := b.pool.Invoke(param); err != nil {
				wg.Done()
				errs[i] = fmt.Errorf("submit generation batch %d: %w", i, err)
				param.reset()
				generateBatchParamPool.Put(param)
			}
		}
		wg.Wait()
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return outputs, nil
}
