package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ CipherRegistry     = (*MemoryCipherRegistry)(nil)
	_ NormalizerRegistry = (*MemoryNormalizerRegistry)(nil)
	_ ManagementRegistry = (*MemoryManagementRegistry)(nil)
	_ NamingDirectory    = (*MemoryNamingDirectory)(nil)
	_ PasswordCipher     = PlainTextCipher{}
	_ XADataSource       = (*DeferredXADataSource)(nil)
	_ ConfigProvider     = (*CfgxConfigProvider)(nil)
	_ OptionsResolver    = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
