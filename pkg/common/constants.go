package common

// Language model providers selectable with ai.provider.
const (
	AIProviderGroq   = "groq"
	AIProviderGemini = "gemini"
)

// Signal cache backends selectable with cache.driver.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)
