package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				org_id VARCHAR(255) NOT NULL DEFAULT '',
				channel_id VARCHAR(255),
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'saved', 'active')),
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_status ON workflows(status);
			CREATE INDEX idx_workflows_org_id ON workflows(org_id);
			CREATE INDEX idx_workflows_channel_id ON workflows(channel_id);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
		`,
	}
}
