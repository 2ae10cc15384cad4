/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package plan

import "time"

// CoolOffPeriod returns min(maxPeriod, unit * 2^count). It never overflows.
func CoolOffPeriod(unit, maxPeriod time.Duration, count int) time.Duration {
	if unit <= 0 {
		return 0
	}

	if count < 0 {
		count = 0
	}

	period := unit

	for range count {
		if period >= maxPeriod || period > maxPeriod/2 {
			return maxPeriod
		}

		period *= 2
	}

	return min(period, maxPeriod)
}
