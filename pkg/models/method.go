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

package models

import (
	"net/http"
	"time"
)

// DirectMethodRequest is a cloud-initiated method call targeting a device or module.
type DirectMethodRequest struct {
	CorrelationID   string        `json:"correlation_id"`
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Data            []byte        `json:"data,omitempty"`
	ResponseTimeout time.Duration `json:"response_timeout"`
	ConnectTimeout  time.Duration `json:"connect_timeout"`
}

// DirectMethodResponse carries the device's answer to a DirectMethodRequest.
type DirectMethodResponse struct {
	CorrelationID string `json:"correlation_id"`
	Status        int    `json:"status"`
	Data          []byte `json:"data,omitempty"`
	// Err is set when the request could not be delivered at all.
	Err error `json:"-"`
}

// NewMethodNotFoundResponse is returned when the target never became reachable
// within the request's timeout.
func NewMethodNotFoundResponse(correlationID string, err error) *DirectMethodResponse {
	return &DirectMethodResponse{
		CorrelationID: correlationID,
		Status:        http.StatusNotFound,
		Err:           err,
	}
}
