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

// DeviceSubscription is a feature a connected client has asked to receive.
type DeviceSubscription int

const (
	SubscriptionUnknown DeviceSubscription = iota
	SubscriptionDesiredPropertyUpdates
	SubscriptionMethods
	SubscriptionC2D
	SubscriptionModuleMessages
	SubscriptionTwinResponse
)

var subscriptionNames = map[DeviceSubscription]string{
	SubscriptionUnknown:                "Unknown",
	SubscriptionDesiredPropertyUpdates: "DesiredPropertyUpdates",
	SubscriptionMethods:                "Methods",
	SubscriptionC2D:                    "C2D",
	SubscriptionModuleMessages:         "ModuleMessages",
	SubscriptionTwinResponse:           "TwinResponse",
}

func (s DeviceSubscription) String() string {
	if name, ok := subscriptionNames[s]; ok {
		return name
	}

	return subscriptionNames[SubscriptionUnknown]
}
