// Copyright 2025 The Freya Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may
// not use this file except in compliance with the License. A copy of the
// License is located at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language governing
// permissions and limitations under the License.

package operator

import (
	"math/rand"
	"time"
)

// RetryPolicy decides whether a terminated pipeline run is restarted, and
// after what delay. Policies are immutable; Next returns the successor
// policy to consult after the following exit.
type RetryPolicy interface {
	Next() (canRestart bool, delay time.Duration, next RetryPolicy)
}

// TimesPolicy restarts a bounded number of times with an exponentially
// growing delay.
type TimesPolicy struct {
	Remaining  int
	Delay      time.Duration
	Multiplier float64
}

// Times returns a policy allowing n restarts, the first after delay and each
// subsequent one after the previous delay scaled by multiplier. A multiplier
// below 1 is treated as 1.
func Times(n int, delay time.Duration, multiplier float64) *TimesPolicy {
	if multiplier < 1 {
		multiplier = 1
	}
	return &TimesPolicy{Remaining: n, Delay: delay, Multiplier: multiplier}
}

func (p *TimesPolicy) Next() (bool, time.Duration, RetryPolicy) {
	if p.Remaining <= 0 {
		return false, 0, p
	}
	next := &TimesPolicy{
		Remaining:  p.Remaining - 1,
		Delay:      time.Duration(float64(p.Delay) * p.Multiplier),
		Multiplier: p.Multiplier,
	}
	return true, p.Delay, next
}

var _ RetryPolicy = &TimesPolicy{}

// InfinitePolicy always restarts, sleeping a uniformly random duration
// within [MinDelay, MaxDelay] before each attempt.
type InfinitePolicy struct {
	MinDelay time.Duration
	MaxDelay time.Duration

	rng *rand.Rand
}

// Infinite returns a policy that never exhausts. A max below min is clamped
// to min.
func Infinite(min, max time.Duration) *InfinitePolicy {
	if max < min {
		max = min
	}
	return &InfinitePolicy{
		MinDelay: min,
		MaxDelay: max,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *InfinitePolicy) Next() (bool, time.Duration, RetryPolicy) {
	delay := p.MinDelay
	if span := p.MaxDelay - p.MinDelay; span > 0 {
		delay += time.Duration(p.rng.Int63n(int64(span) + 1))
	}
	return true, delay, p
}

var _ RetryPolicy = &InfinitePolicy{}
