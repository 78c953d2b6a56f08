package teamsai

import "time"

// Template syntax constants
const (
	OpenDelim      = "{{"
	CloseDelim     = "}}"
	VariablePrefix = "$"
	PathSeparator  = "."
)

// Built-in scope names
const (
	ScopeTemp         = "temp"
	ScopeConversation = "conversation"
	ScopeUser         = "user"
	ScopeActivity     = "activity" // Resolved against the turn activity, not state
)

// Well-known temp scope keys
const (
	TempKeyInput  = "input"
	TempKeyOutput = "output"
)

// Activity property names
const (
	ActivityKeyType         = "type"
	ActivityKeyID           = "id"
	ActivityKeyText         = "text"
	ActivityKeyChannelID    = "channelId"
	ActivityKeyConversation = "conversation"
	ActivityKeyFrom         = "from"
	ActivityKeyRecipient    = "recipient"
	ActivityKeyNestedID     = "id"
	ActivityTypeMessage     = "message"
)

// Storage key layout
const (
	StorageKeyFmtConversation = "%s/%s/conversations/%s"
	StorageKeyFmtUser         = "%s/%s/users/%s"
)

// Storage driver names
const (
	StorageDriverNameMemory   = "memory"
	StorageDriverNamePostgres = "postgres"
	StorageDriverNameRedis    = "redis"
)

// PostgreSQL storage defaults
const (
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
	PostgresTablePrefix            = "teamsai_"
	PostgresTableStateItems        = "state_items"
)

// Redis storage defaults
const (
	RedisDefaultPrefix      = "teamsai"
	RedisDefaultTTL         = 24 * time.Hour
	RedisDefaultPingTimeout = 5 * time.Second
	RedisKeySeparator       = ":"
)

// Block cache defaults
const (
	BlockCacheDefaultTTL        = 10 * time.Minute
	BlockCacheDefaultMaxEntries = 512
)

// Prompt folder layout
const (
	PromptTemplateFile   = "skprompt.txt"
	PromptConfigFileJSON = "config.json"
	PromptConfigFileYAML = "config.yaml"
	PromptTypeCompletion = "completion"
	PromptSchemaVersion  = 1
)

// Tokenizer defaults
const (
	DefaultEncoding = "cl100k_base"
)

// Metrics constants
const (
	MetricsNamespace  = "teamsai"
	MetricStatusOK    = "success"
	MetricStatusError = "error"
	MetricLabelStatus = "status"
	MetricLabelFunc   = "function"
	MetricLabelSource = "source"

	MetricNameRenders        = "renders_total"
	MetricNameRenderDuration = "render_duration_seconds"
	MetricNameFunctions      = "function_invocations_total"
	MetricNameTruncations    = "datasource_truncations_total"
	MetricHelpRenders        = "Total number of template renders"
	MetricHelpRenderDuration = "Duration of template renders in seconds"
	MetricHelpFunctions      = "Total number of template function invocations"
	MetricHelpTruncations    = "Total number of data source renders truncated to the token budget"
)

// MetricRenderDurationBuckets are the histogram buckets for render duration.
var MetricRenderDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}

// Log message constants
const (
	LogMsgEngineCreated       = "engine created"
	LogMsgFunctionRegistered  = "function registered"
	LogMsgFunctionCollision   = "function already registered"
	LogMsgFunctionNotFound    = "function not found"
	LogMsgFunctionInvoked     = "function invoked"
	LogMsgDataSourceTruncated = "data source truncated to token budget"
	LogMsgStateLoaded         = "turn state loaded"
	LogMsgStateSaved          = "turn state saved"
	LogMsgPromptLoaded        = "prompt loaded"
	LogMsgBlockCacheHit       = "block cache hit"
	LogMsgBlockCacheMiss      = "block cache miss"
	LogMsgRenderFailed        = "render failed"
)

// Log field constants
const (
	LogFieldFunction  = "function"
	LogFieldSource    = "source"
	LogFieldTokens    = "tokens"
	LogFieldMaxTokens = "max_tokens"
	LogFieldKeys      = "keys"
	LogFieldItems     = "items"
	LogFieldBlocks    = "blocks"
	LogFieldPrompt    = "prompt"
	LogFieldDuration  = "duration"
	LogFieldExisting  = "existing"
)
