package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is executed on startup. Statements are idempotent so restarting the
// server against an existing database is safe.
const schema = `
CREATE TABLE IF NOT EXISTS usuarios (
    id SERIAL PRIMARY KEY,
    nome TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    senha TEXT NOT NULL,
    is_god BOOLEAN NOT NULL DEFAULT FALSE,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS hubs (
    id SERIAL PRIMARY KEY,
    nome TEXT NOT NULL,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pessoas (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    usuario_id INTEGER REFERENCES usuarios(id),
    nome TEXT NOT NULL,
    email TEXT NOT NULL,
    papel TEXT NOT NULL DEFAULT 'COLLABORATOR',
    politica_acesso TEXT NOT NULL DEFAULT 'INDIVIDUAL',
    ativo BOOLEAN NOT NULL DEFAULT TRUE,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS convites (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    email TEXT NOT NULL,
    papel TEXT NOT NULL DEFAULT 'COLLABORATOR',
    politica_acesso TEXT NOT NULL DEFAULT 'INDIVIDUAL',
    codigo UUID NOT NULL UNIQUE,
    usado BOOLEAN NOT NULL DEFAULT FALSE,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transacoes (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    descricao TEXT NOT NULL,
    valor_total NUMERIC(12,2) NOT NULL,
    tipo TEXT NOT NULL,
    data_transacao DATE NOT NULL,
    data_vencimento DATE,
    status_pagamento TEXT NOT NULL DEFAULT 'PENDING',
    parcela_atual INTEGER,
    total_parcelas INTEGER,
    grupo_parcelamento UUID,
    criado_por_pessoa_id INTEGER REFERENCES pessoas(id),
    deletado BOOLEAN NOT NULL DEFAULT FALSE,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transacao_participantes (
    id SERIAL PRIMARY KEY,
    transacao_id INTEGER NOT NULL REFERENCES transacoes(id),
    pessoa_id INTEGER NOT NULL REFERENCES pessoas(id),
    valor_devido NUMERIC(12,2) NOT NULL,
    valor_pago NUMERIC(12,2) NOT NULL DEFAULT 0,
    UNIQUE (transacao_id, pessoa_id)
);

CREATE TABLE IF NOT EXISTS pagamentos (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    pessoa_id INTEGER NOT NULL REFERENCES pessoas(id),
    valor_total NUMERIC(12,2) NOT NULL,
    data_pagamento DATE NOT NULL,
    forma_pagamento TEXT NOT NULL,
    observacoes TEXT NOT NULL DEFAULT '',
    tem_excedente BOOLEAN NOT NULL DEFAULT FALSE,
    valor_excedente NUMERIC(12,2) NOT NULL DEFAULT 0,
    receita_excedente_id INTEGER REFERENCES transacoes(id),
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pagamento_transacoes (
    id SERIAL PRIMARY KEY,
    pagamento_id INTEGER NOT NULL REFERENCES pagamentos(id) ON DELETE CASCADE,
    transacao_id INTEGER NOT NULL REFERENCES transacoes(id),
    valor_aplicado NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS configuracoes_excedente (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL UNIQUE REFERENCES hubs(id),
    auto_criar_receita_excedente BOOLEAN NOT NULL DEFAULT FALSE,
    valor_minimo_excedente NUMERIC(12,2) NOT NULL DEFAULT 0,
    descricao_receita_excedente TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    nome TEXT NOT NULL,
    cor TEXT NOT NULL DEFAULT '',
    UNIQUE (hub_id, nome)
);

CREATE TABLE IF NOT EXISTS transacao_tags (
    transacao_id INTEGER NOT NULL REFERENCES transacoes(id),
    tag_id INTEGER NOT NULL REFERENCES tags(id),
    PRIMARY KEY (transacao_id, tag_id)
);

CREATE TABLE IF NOT EXISTS notificacoes (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    pessoa_id INTEGER REFERENCES pessoas(id),
    mensagem TEXT NOT NULL,
    lida BOOLEAN NOT NULL DEFAULT FALSE,
    data_evento TIMESTAMPTZ NOT NULL,
    criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS relatorios (
    id SERIAL PRIMARY KEY,
    hub_id INTEGER NOT NULL REFERENCES hubs(id),
    dados JSONB NOT NULL,
    gerado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pessoas_hub ON pessoas(hub_id);
CREATE INDEX IF NOT EXISTS idx_transacoes_hub ON transacoes(hub_id);
CREATE INDEX IF NOT EXISTS idx_participantes_transacao ON transacao_participantes(transacao_id);
CREATE INDEX IF NOT EXISTS idx_participantes_pessoa ON transacao_participantes(pessoa_id);
CREATE INDEX IF NOT EXISTS idx_pagamentos_hub ON pagamentos(hub_id);
CREATE INDEX IF NOT EXISTS idx_pagamentos_pessoa ON pagamentos(pessoa_id);
CREATE INDEX IF NOT EXISTS idx_alocacoes_pagamento ON pagamento_transacoes(pagamento_id);
CREATE INDEX IF NOT EXISTS idx_notificacoes_pessoa ON notificacoes(pessoa_id);
`

// RunMigrations applies the schema on startup.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("erro ao aplicar schema: %w", err)
	}
	return nil
}
